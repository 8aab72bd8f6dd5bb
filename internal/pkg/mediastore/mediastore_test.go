package mediastore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublicURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		key  string
		want string
	}{
		{
			name: "cdn base url",
			cfg:  Config{PublicBaseURL: "https://media.legacy-ai.example/", BucketName: "legacy-media"},
			key:  "audio/7/speech-1.mp3",
			want: "https://media.legacy-ai.example/audio/7/speech-1.mp3",
		},
		{
			name: "custom endpoint",
			cfg:  Config{EndpointURL: "https://s3.eu-central-1.example.com", BucketName: "legacy-media"},
			key:  "avatars/7/portrait.jpg",
			want: "https://s3.eu-central-1.example.com/legacy-media/avatars/7/portrait.jpg",
		},
		{
			name: "plain aws",
			cfg:  Config{BucketName: "legacy-media", Region: "ap-south-1"},
			key:  "videos/7/v.mp4",
			want: "https://legacy-media.s3.ap-south-1.amazonaws.com/videos/7/v.mp4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.PublicURL(tt.key))
		})
	}
}

func TestContentTypeForExt(t *testing.T) {
	assert.Equal(t, "image/jpeg", ContentTypeForExt(".jpg"))
	assert.Equal(t, "audio/mpeg", ContentTypeForExt(".mp3"))
	assert.Equal(t, "video/mp4", ContentTypeForExt(".mp4"))
	assert.Equal(t, "application/octet-stream", ContentTypeForExt(".xyz"))
}
