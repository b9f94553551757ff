package notification

// Presentation is how one kind of toast looks.
type Presentation struct {
	Background string `yaml:"background"`
	Color      string `yaml:"color"`
}

// Theme maps kinds to presentations.
type Theme map[Kind]Presentation

// DefaultTheme returns the stock colours.
func DefaultTheme() Theme {
	return Theme{
		KindInfo:    {Background: "#2196F3", Color: "white"},
		KindSuccess: {Background: "#4CAF50", Color: "white"},
		KindError:   {Background: "#F44336", Color: "white"},
	}
}

// For returns the presentation for k, falling back to info and then to
// the stock info presentation.
func (t Theme) For(k Kind) Presentation {
	if p, ok := t[k]; ok {
		return p
	}
	if p, ok := t[KindInfo]; ok {
		return p
	}
	return DefaultTheme()[KindInfo]
}

// Merge returns a copy of t with entries from other layered on top.
// Empty fields in other keep the value from t. A kind t lacks starts from
// t's fallback, so a partial override never leaves a field blank.
func (t Theme) Merge(other Theme) Theme {
	merged := make(Theme, len(t)+len(other))
	for k, p := range t {
		merged[k] = p
	}
	for k, p := range other {
		base, ok := merged[k]
		if !ok {
			base = t.For(k)
		}
		if p.Background != "" {
			base.Background = p.Background
		}
		if p.Color != "" {
			base.Color = p.Color
		}
		merged[k] = base
	}
	return merged
}
