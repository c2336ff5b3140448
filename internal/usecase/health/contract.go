package health

// SchemaSource reports how many document types are loaded.
type SchemaSource interface {
	Len() int
}

// KindLister lists the query kinds a registry can build.
type KindLister interface {
	Kinds() []string
}
