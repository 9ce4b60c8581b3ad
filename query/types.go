package query

// IndexPage requests the rendered submission form.
type IndexPage struct{}

func (IndexPage) Type() string { return "report:index" }

func (IndexPage) Validate() error { return nil }
