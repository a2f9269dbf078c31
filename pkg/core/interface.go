// pkg/core/interface.go
package core

// Confirmer asks the user a blocking yes/no question
type Confirmer interface {
	Confirm(question string) bool
}

// ConfirmFunc adapts a plain function to the Confirmer interface
type ConfirmFunc func(question string) bool

// Confirm calls f(question)
func (f ConfirmFunc) Confirm(question string) bool {
	return f(question)
}

// AlwaysConfirm answers yes to every question
var AlwaysConfirm = ConfirmFunc(func(string) bool { return true })

// NeverConfirm answers no to every question
var NeverConfirm = ConfirmFunc(func(string) bool { return false })

// IncludeLister extracts the targets of the #include directives of a source
// file, e.g. "stdio.h" or "openssl/ssl.h".
type IncludeLister interface {
	Includes(path string) ([]string, error)
}
