package tugboat

import "time"

// RefType is the kind of Git reference a preview is built from.
type RefType string

const (
	RefBranch      RefType = "branch"
	RefTag         RefType = "tag"
	RefPullRequest RefType = "pullrequest"
)

// Valid reports whether t is one of the known ref types.
func (t RefType) Valid() bool {
	switch t {
	case RefBranch, RefTag, RefPullRequest:
		return true
	default:
		return false
	}
}

// Preview is a Tugboat preview as returned by the API.
type Preview struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Ref        string    `json:"ref"`
	Repo       string    `json:"repo"`
	Type       RefType   `json:"type,omitempty"`
	State      string    `json:"state,omitempty"`
	URL        string    `json:"url,omitempty"`
	Anchor     bool      `json:"anchor,omitempty"`
	AnchorType string    `json:"anchorType,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// CreatePreviewRequest is the body of a create call.
type CreatePreviewRequest struct {
	Repo string  `json:"repo"`
	Ref  string  `json:"ref"`
	Name string  `json:"name,omitempty"`
	Type RefType `json:"type,omitempty"`
}
