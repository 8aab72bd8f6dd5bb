package mail

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActivationMailBody(t *testing.T) {
	body := ActivationMailBody("Asha", "https://legacy.example/api/v1/auth/activate?token=abc")

	assert.Contains(t, body, "Hello Asha,")
	assert.Contains(t, body, `href="https://legacy.example/api/v1/auth/activate?token=abc"`)
	assert.Contains(t, body, "<html>")
}
