package config

// NewLoggerForTest exposes newLogger
var NewLoggerForTest = newLogger

// NewSlackForTest creates a Slack config for testing purposes
func NewSlackForTest(botToken, channelID string) *Slack {
	return &Slack{botToken: botToken, channelID: channelID}
}

// NewAuthForTest creates an Auth config for testing purposes
func NewAuthForTest(supabaseURL, jwtSecret, jwksURL, audience string) *Auth {
	return &Auth{
		supabaseURL: supabaseURL,
		jwtSecret:   jwtSecret,
		jwksURL:     jwksURL,
		audience:    audience,
	}
}

// NewStorageForTest creates a Storage config for testing purposes
func NewStorageForTest(backend, bucket, baseURL string) *Storage {
	return &Storage{backend: backend, bucket: bucket, baseURL: baseURL}
}

// NewRepositoryForTest creates a Repository config for testing purposes
func NewRepositoryForTest(backend, projectID, postgresDSN string) *Repository {
	return &Repository{backend: backend, projectID: projectID, postgresDSN: postgresDSN}
}

// NewLoggerConfigForTest creates a Logger config for testing purposes
func NewLoggerConfigForTest(level, format, output string) *Logger {
	return &Logger{level: level, format: format, output: output}
}
