package config

type UploadConfig struct {
	// AllowedTypes maps an accepted MIME type to the file extensions that may carry it.
	AllowedTypes map[string][]string
	MaxSizeBytes int64
	PathPrefix   string
}

var UploadContexts = map[string]UploadConfig{
	"job_photo": {
		AllowedTypes: map[string][]string{
			"image/jpeg": {".jpg", ".jpeg"},
			"image/png":  {".png"},
			"image/gif":  {".gif"},
			"image/webp": {".webp"},
		},
		MaxSizeBytes: 10 << 20,
		PathPrefix:   "job-photos",
	},
}
