package models

import (
	"path"
	"strings"
)

// S3Config carries the connection form for an S3 import. It is transient:
// only the redacted S3Source derived from it is ever persisted.
type S3Config struct {
	Bucket    string `json:"bucket"`
	Region    string `json:"region"`
	AccessKey string `json:"access_key"`
	SecretKey string `json:"secret_key"`
	FilePath  string `json:"file_path"`
}

// MissingFields returns the json names of every empty field, in form order.
func (c S3Config) MissingFields() []string {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"bucket", c.Bucket},
		{"region", c.Region},
		{"access_key", c.AccessKey},
		{"secret_key", c.SecretKey},
		{"file_path", c.FilePath},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// ObjectName is the last segment of the file path, or "S3 Import" when there is none.
func (c S3Config) ObjectName() string {
	trimmed := strings.TrimRight(c.FilePath, "/")
	if trimmed == "" {
		return "S3 Import"
	}
	return path.Base(trimmed)
}

// Source drops the secret key and masks the access key id.
func (c S3Config) Source() S3Source {
	return S3Source{
		Bucket:      c.Bucket,
		Region:      c.Region,
		FilePath:    c.FilePath,
		AccessKeyID: MaskKey(c.AccessKey),
	}
}

// S3Source is the part of an S3 connection stored on the project record
type S3Source struct {
	Bucket      string `json:"bucket"`
	Region      string `json:"region"`
	FilePath    string `json:"file_path"`
	AccessKeyID string `json:"access_key_id"`
}

// MaskKey keeps the last four characters of a key.
func MaskKey(key string) string {
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}
