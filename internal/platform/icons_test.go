package platform

import (
	"reflect"
	"testing"
)

func TestContentTypeIconNames(t *testing.T) {
	tests := []struct {
		contentType string
		expected    []string
	}{
		{"", []string{"package-x-generic-symbolic"}},
		{"garbage", []string{"package-x-generic-symbolic"}},
		{"image/png", []string{"image-png-symbolic", "image-x-generic-symbolic", "package-x-generic-symbolic"}},
		{"text/html; charset=utf-8", []string{"text-html-symbolic", "text-x-generic-symbolic", "package-x-generic-symbolic"}},
		{"application/pdf", []string{"application-pdf-symbolic", "application-x-generic-symbolic", "package-x-generic-symbolic"}},
	}

	for _, test := range tests {
		result := ContentTypeIconNames(test.contentType)
		if !reflect.DeepEqual(result, test.expected) {
			t.Errorf("ContentTypeIconNames(%q) = %v, expected %v", test.contentType, result, test.expected)
		}
	}
}
