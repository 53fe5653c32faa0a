package shell

// Static is a screen with nothing to fetch.
type Static struct {
	name string
	view func() interface{}
}

func NewStatic(name string, view func() interface{}) *Static {
	return &Static{name: name, view: view}
}

func (s *Static) Name() string   { return s.name }
func (s *Static) Refresh() error { return nil }
func (s *Static) Close()         {}

func (s *Static) View() interface{} {
	return s.view()
}
