package fs

// Inode is a directory handle.
type Inode struct {
	Path string
	ref  int
}

// Ref returns the reference count.
func (i *Inode) Ref() int { return i.ref }

// File is an open file.
type File struct {
	Path     string
	Writable bool
	ref      int
}

// Ref returns the reference count.
func (f *File) Ref() int { return f.ref }
