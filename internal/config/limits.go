package config

const (
	// MaxCommentLength bounds reviewer feedback.
	MaxCommentLength = 2000

	// MaxTextPages bounds how many pages one text section may hold.
	MaxTextPages = 50

	// MaxImagesPerSection bounds image sections such as screenshots.
	MaxImagesPerSection = 40

	// MaxScheduleRows bounds the weekly overview table (52 weeks x 6 days).
	MaxScheduleRows = 312

	// MaxUploadBytes is the multipart body limit for image uploads.
	MaxUploadBytes = 20 << 20

	// MaxImageBytes is the per-file limit for uploads.
	MaxImageBytes = 5 << 20

	// MaxImagesPerUpload bounds files per upload request.
	MaxImagesPerUpload = 10

	// MaxClassNameLength fits VARCHAR(255).
	MaxClassNameLength = 255

	// MaxNameLength bounds display names of staff accounts.
	MaxNameLength = 255

	// MinPasswordLength and MaxPasswordLength bound new staff passwords.
	// 72 is the bcrypt input limit of the identity provider.
	MinPasswordLength = 8
	MaxPasswordLength = 72
)
