package multipart

// Form is the eager-mode result of a decode: plain fields keyed by name
// (duplicates keep the last value) and file parts in body order, never
// deduplicated by name.
type Form struct {
	Fields map[string]string
	Files  []File
}

// File is one decoded file part. Exactly one of Content and Path is
// populated: Content when the part stayed under the memory threshold,
// Path when it was spilled to disk. Spilled files are owned by the
// caller once the decode has produced them.
type File struct {
	Name        string
	Filename    string
	ContentType string
	Content     []byte
	Path        string
	Size        int64
}

// Part is one decoded section of the body. Field parts carry Value,
// file parts carry File.
type Part struct {
	Name  string
	Value string
	File  *File
}

func (p *Part) IsFile() bool {
	return p.File != nil
}
