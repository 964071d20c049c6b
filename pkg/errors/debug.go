package errors

import "errors"

// DumpInfo is a log-friendly flattening of an error chain.
type DumpInfo struct {
	Code       string
	TopMessage string
	Chain      []string
}

// Dump walks the error chain and collects every message for logging.
func Dump(err error) DumpInfo {
	info := DumpInfo{}
	if err == nil {
		return info
	}

	info.TopMessage = err.Error()
	if typed := As(err); typed != nil {
		info.Code = string(typed.Code())
	}

	for current := err; current != nil; current = errors.Unwrap(current) {
		info.Chain = append(info.Chain, current.Error())
	}
	return info
}
