package entity

import "time"

// PlaceholderFilePath is served when a user has no profile image.
const PlaceholderFilePath = "blank.png"

// File is a stored document such as a profile image.
type File struct {
	ID        int64
	FilePath  string
	CreatedAt time.Time
}

// FileDetail is the externally visible form of a File.
type FileDetail struct {
	ID       int64  `json:"id,omitempty"`
	FilePath string `json:"filePath"`
}

func (f *File) Detail() FileDetail {
	return FileDetail{ID: f.ID, FilePath: f.FilePath}
}

// PlaceholderImage returns the default profile image detail.
func PlaceholderImage() FileDetail {
	return FileDetail{FilePath: PlaceholderFilePath}
}
