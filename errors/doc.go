/*
Package errors implements custom error interfaces for signet.

The idea is to reuse as many errors from this package as possible and
define custom package errors when absolutely necessary. It is best to
define a new error here if you feel it's going to be somewhat
package-agnostic.

x/multisig is a good package to take a look at in terms of usage with a
custom error band.

If you want to register a custom error - use Register(code, description).
For reusing errors - use errors.Wrap(ErrXyz, "...").
Code allows to distinguish types of errors on the client side and act
accordingly.

There is also support for stacktraces. Please ensure you create the
error using errors.Wrap(err, "...") at the point of creation to ensure
we attach a stacktrace. If you wrap multiple times, we only record the
first wrap with the stacktrace.
*/
package errors
