// Package apperr defines the application error codes surfaced at the API
// boundary.
package apperr

import (
	"errors"
	"fmt"

	"github.com/samber/oops"
)

const (
	EINVALID     = "invalid"
	ENOTFOUND    = "not_found"
	EUPSTREAM    = "upstream_query_failure"
	EEXPORT      = "export_failure"
	EUNAVAILABLE = "unavailable"
	EINTERNAL    = "internal"
)

// Upstream wraps a row source failure. The upstream message is kept.
func Upstream(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return oops.Code(EUPSTREAM).In("rowsource").Wrapf(err, format, args...)
}

// Export wraps an export serialization failure.
func Export(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return oops.Code(EEXPORT).In("export").Wrapf(err, format, args...)
}

func NotFound(format string, args ...any) error {
	return oops.Code(ENOTFOUND).Errorf(format, args...)
}

func Invalid(format string, args ...any) error {
	return oops.Code(EINVALID).Errorf(format, args...)
}

func Unavailable(format string, args ...any) error {
	return oops.Code(EUNAVAILABLE).Errorf(format, args...)
}

// Code returns the application code carried by err, EINTERNAL otherwise.
func Code(err error) string {
	if err == nil {
		return ""
	}
	var oopsErr oops.OopsError
	if errors.As(err, &oopsErr) {
		if code := fmt.Sprint(oopsErr.Code()); code != "" && code != "<nil>" {
			return code
		}
	}
	return EINTERNAL
}

func Is(err error, code string) bool {
	return Code(err) == code
}
