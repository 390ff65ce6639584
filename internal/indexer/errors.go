package indexer

// UnsupportedInputError reports a document or chunking request that cannot be processed.
type UnsupportedInputError struct {
	Msg string
}

func (e *UnsupportedInputError) Error() string {
	return e.Msg
}
