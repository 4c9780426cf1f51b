package assets

// Loader decodes one kind of asset file.
type Loader interface {
	Load(path string) (interface{}, error)
}
