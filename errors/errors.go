package errors

import (
	stdErr "errors"
	"fmt"
	"runtime"
)

var RuntimeFileInfo = false

var (
	ErrStoreUnavailable = stdErr.New("store unavailable")
	ErrInvalidArgument  = stdErr.New("invalid argument")
)

// DeserializationError is returned when a stored value cannot be decoded into the requested type.
type DeserializationError struct {
	Target string
	Key    string
	Cause  error
}

func (d *DeserializationError) Error() string {
	return fmt.Sprintf("failed to parse value of key('%s') as %s: %v", d.Key, d.Target, d.Cause)
}

func (d *DeserializationError) Unwrap() error { return d.Cause }

// StoreError wraps a failure talking to the underlying key-value store.
// errors.Is(err, ErrStoreUnavailable) holds for every StoreError.
type StoreError struct {
	Op    string
	Key   string
	Cause error
}

func (s *StoreError) Error() string {
	if s.Key == "" {
		return fmt.Sprintf("store %s: %v", s.Op, s.Cause)
	}
	return fmt.Sprintf("store %s key('%s'): %v", s.Op, s.Key, s.Cause)
}

func (s *StoreError) Unwrap() error { return s.Cause }

func (s *StoreError) Is(target error) bool { return target == ErrStoreUnavailable }

func Store(op, key string, cause error) error {
	if cause == nil {
		return nil
	}
	return &StoreError{Op: op, Key: key, Cause: cause}
}

func InvalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

func As(err error, target any) bool {
	return stdErr.As(err, target)
}

func Is(err, target error) bool {
	return stdErr.Is(err, target)
}

func Join(errs ...error) error {
	return stdErr.Join(errs...)
}

func New(text string) error {
	return stdErr.New(text)
}

func Newf(text string, args ...any) error {
	return fmt.Errorf(text, args...)
}

func Wrap(err error, msg string, args ...any) error {
	if err == nil {
		return err
	}
	if RuntimeFileInfo {
		pc, file, line, ok := runtime.Caller(1)
		if ok {
			msg += " function=%s file=%s line=%d"
			rf := runtime.FuncForPC(pc)
			args = append(args, rf.Name(), file, line)
		}
	}

	msg += ": %w"
	args = append(args, err)

	return fmt.Errorf(msg, args...)
}
