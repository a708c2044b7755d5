package utils

import (
	"fmt"
	"net/http"
	"path"
	"strings"
)

// ValidateFilePath validates a URL path
func ValidateFilePath(p string) error {
	if p == "" {
		return fmt.Errorf("no path supplied")
	}

	cleaned := path.Clean(p)
	if cleaned != p {
		return fmt.Errorf("invalid path '%s'", p)
	}

	return nil
}

// ValidateFileName validates a single file name, no directories allowed
func ValidateFileName(name string) error {
	if err := ValidateFilePath(name); err != nil {
		return err
	}

	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid file name '%s'", name)
	}

	return nil
}

// HttpError provides shorter handling of http error
func HttpError(w http.ResponseWriter, status int) {
	http.Error(w, http.StatusText(status), status)
}
