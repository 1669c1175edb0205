package portal

// File is one uploaded file, already pulled into memory by the HTTP layer.
type File struct {
	Data        []byte
	ContentType string
}

// SubmissionForm is the multipart submission after decoding, with one value
// per field name. The handler works on this shape rather than the raw
// request so the whole submission path can be driven without HTTP.
type SubmissionForm struct {
	Fields map[string]string
	Files  map[string]*File
}

func (f *SubmissionForm) Field(name string) string {
	return f.Fields[name]
}

func (f *SubmissionForm) File(name string) *File {
	return f.Files[name]
}

func (f *SubmissionForm) HasFile(name string) bool {
	_, ok := f.Files[name]
	return ok
}
