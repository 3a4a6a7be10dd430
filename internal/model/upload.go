package model

// UploadedFile describes a file accepted by the upload gate.
type UploadedFile struct {
	GeneratedName     string `json:"generatedName"`
	OriginalExtension string `json:"originalExtension"`
	SizeBytes         int64  `json:"sizeBytes"`
	StoragePath       string `json:"-"`
}
