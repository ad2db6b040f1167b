package uischema

import (
	"fmt"
	"sort"
	"strings"

	pkgmodel "github.com/goliatone/go-tugboat/pkg/model"
)

// Decorator applies UI schema overlays to a form model.
type Decorator struct {
	store *Store
}

var _ pkgmodel.Decorator = (*Decorator)(nil)

// NewDecorator builds a Decorator backed by the provided store. When store is
// nil or empty, the decorator becomes a no-op.
func NewDecorator(store *Store) *Decorator {
	return &Decorator{store: store}
}

// Decorate applies the overlay registered for form.OperationID. Forms without
// a matching operation are left untouched.
func (d *Decorator) Decorate(form *pkgmodel.FormModel) error {
	if d == nil || d.store.Empty() || form == nil {
		return nil
	}

	op, ok := d.store.Operation(form.OperationID)
	if !ok {
		return nil
	}

	if err := applyFormConfig(form, op); err != nil {
		return err
	}
	if err := applyFieldConfig(form, op); err != nil {
		return err
	}
	reorderFields(form, op)
	return nil
}

func applyFormConfig(form *pkgmodel.FormModel, op Operation) error {
	for key, value := range op.Form.UIHints {
		form.UIHints = setHint(form.UIHints, key, value)
	}
	if title := strings.TrimSpace(op.Form.Title); title != "" {
		form.UIHints = setHint(form.UIHints, "title", title)
	}
	if subtitle := strings.TrimSpace(op.Form.Subtitle); subtitle != "" {
		form.Description = subtitle
	}

	if label := strings.TrimSpace(op.Form.SubmitLabel); label != "" {
		relabelled := false
		for idx := range form.Actions {
			if form.Actions[idx].Kind == pkgmodel.ActionKindSubmit {
				form.Actions[idx].Label = label
				form.Actions[idx].Value = label
				relabelled = true
				break
			}
		}
		if !relabelled {
			form.EnsureSubmitAction(label)
		}
	}

	for idx, cfg := range op.Form.Actions {
		kind := pkgmodel.ActionKind(strings.ToLower(strings.TrimSpace(cfg.Kind)))
		switch kind {
		case "":
			kind = pkgmodel.ActionKindSubmit
		case pkgmodel.ActionKindSubmit, pkgmodel.ActionKindReset:
		case pkgmodel.ActionKindLink:
			if strings.TrimSpace(cfg.Href) == "" {
				return fmt.Errorf("uischema: operation %q action %d is a link without href", op.ID, idx)
			}
		default:
			return fmt.Errorf("uischema: operation %q action %d has unknown kind %q", op.ID, idx, cfg.Kind)
		}
		form.Actions = append(form.Actions, pkgmodel.Action{
			Name:  strings.TrimSpace(cfg.Name),
			Label: strings.TrimSpace(cfg.Label),
			Kind:  kind,
			Value: strings.TrimSpace(cfg.Value),
			Href:  strings.TrimSpace(cfg.Href),
		})
	}
	return nil
}

func applyFieldConfig(form *pkgmodel.FormModel, op Operation) error {
	for name, cfg := range op.Fields {
		field, ok := form.FieldByName(name)
		if !ok {
			return fmt.Errorf("uischema: operation %q (file %s) references unknown field %q", op.ID, op.Source, name)
		}

		for key, value := range cfg.UIHints {
			if !pkgmodel.IsAllowedUIHintKey(key) {
				return fmt.Errorf("uischema: field %q uses unsupported ui hint %q", name, key)
			}
			field.UIHints = setHint(field.UIHints, key, value)
		}
		if label := strings.TrimSpace(cfg.Label); label != "" {
			field.Label = label
		}
		if placeholder := strings.TrimSpace(cfg.Placeholder); placeholder != "" {
			field.Placeholder = placeholder
		}
		if help := strings.TrimSpace(cfg.HelpText); help != "" {
			field.Description = help
			field.UIHints = setHint(field.UIHints, "helpText", help)
		}
		if cfg.Hidden != nil {
			if *cfg.Hidden {
				field.UIHints = setHint(field.UIHints, "hidden", "true")
			} else {
				delete(field.UIHints, "hidden")
			}
		}
		if widget := strings.TrimSpace(cfg.Widget); widget != "" {
			field.UIHints = setHint(field.UIHints, "widget", widget)
		}
		if class := strings.TrimSpace(cfg.CSSClass); class != "" {
			field.UIHints = setHint(field.UIHints, "cssClass", class)
		}
		if len(field.UIHints) == 0 {
			field.UIHints = nil
		}
	}
	return nil
}

// reorderFields moves fields with an explicit order to the front, ascending,
// keeping the builder order for ties and for fields without one.
func reorderFields(form *pkgmodel.FormModel, op Operation) {
	rank := func(name string) (int, bool) {
		cfg, ok := op.Fields[name]
		if !ok || cfg.Order == nil {
			return 0, false
		}
		return *cfg.Order, true
	}
	sort.SliceStable(form.Fields, func(i, j int) bool {
		left, lok := rank(form.Fields[i].Name)
		right, rok := rank(form.Fields[j].Name)
		switch {
		case lok && rok:
			return left < right
		case lok:
			return true
		default:
			return false
		}
	})
}

func setHint(hints map[string]string, key, value string) map[string]string {
	key = strings.TrimSpace(key)
	if key == "" {
		return hints
	}
	if hints == nil {
		hints = make(map[string]string)
	}
	hints[key] = strings.TrimSpace(value)
	return hints
}
