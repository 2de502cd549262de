package expr

import (
	"github.com/martin-augment/sedona-db/columnar"
	"github.com/martin-augment/sedona-db/geom"
	"github.com/martin-augment/sedona-db/sedonaerrors"
)

// Volatility classifies a UDF's determinism, the same three-level scheme
// query planners use to decide whether a call can be constant-folded or
// reordered.
type Volatility int

const (
	// Immutable: always returns the same output for the same input,
	// foldable at plan time.
	Immutable Volatility = iota
	// Stable: deterministic within a single query execution but not
	// foldable across executions (not used by the geometry functions in
	// this package, kept for completeness of the scheme).
	Stable
	// Volatile: may return a different result on every call even with
	// identical input.
	Volatile
)

// Documentation is optional human-readable metadata surfaced by catalog
// introspection (e.g. DESCRIBE FUNCTION); kernels without one simply omit
// it from their ScalarUDF.
type Documentation struct {
	Description string
	SyntaxExample string
}

// ScalarKernel is one signature overload of a scalar function: it
// declares the argument types it accepts and the return type it produces
// (ReturnType), and computes one Batch's worth of output (InvokeBatch).
type ScalarKernel interface {
	// ArgMatchers is the ordered list of per-position argument matchers.
	ArgMatchers() []ArgMatcher
	// ReturnType resolves the concrete output type for a call site given
	// its argument types, or an error if this kernel cannot service that
	// call (a Plan-kind error).
	ReturnType(argTypes []geom.SedonaType) (geom.SedonaType, error)
	// InvokeBatch computes the kernel's output for one Batch.
	InvokeBatch(batch *columnar.Batch) (columnar.ColumnarValue, error)
}

// KernelMatches reports whether argTypes is accepted by k's
// ArgMatchers.
func KernelMatches(k ScalarKernel, argTypes []geom.SedonaType) bool {
	return Matches(k.ArgMatchers(), argTypes)
}

// ScalarUDF is a named scalar function backed by an ordered list of
// ScalarKernel overloads; the first kernel whose ArgMatchers accept a
// call site's argument types is used (first-match-wins), mirroring
// SedonaScalarUDF in the reference implementation.
type ScalarUDF struct {
	Name          string
	Kernels       []ScalarKernel
	Volatility    Volatility
	Documentation *Documentation
}

// NewScalarUDF builds a ScalarUDF with Immutable volatility and no
// kernels; call AddKernel to register overloads.
func NewScalarUDF(name string) *ScalarUDF {
	return &ScalarUDF{Name: name, Volatility: Immutable}
}

// AddKernel appends a kernel overload, preserving registration order for
// first-match-wins resolution.
func (u *ScalarUDF) AddKernel(k ScalarKernel) *ScalarUDF {
	u.Kernels = append(u.Kernels, k)
	return u
}

// ResolveKernel returns the first kernel accepting argTypes, or a Plan
// error naming the function and the offered argument types if none
// match.
func (u *ScalarUDF) ResolveKernel(argTypes []geom.SedonaType) (ScalarKernel, error) {
	for _, k := range u.Kernels {
		if KernelMatches(k, argTypes) {
			return k, nil
		}
	}
	return nil, sedonaerrors.Planf("no overload of %s accepts argument types %v", u.Name, argTypes)
}

// ReturnType resolves the output type for a call site by delegating to
// the first matching kernel.
func (u *ScalarUDF) ReturnType(argTypes []geom.SedonaType) (geom.SedonaType, error) {
	k, err := u.ResolveKernel(argTypes)
	if err != nil {
		return geom.SedonaType{}, err
	}
	return k.ReturnType(argTypes)
}

// InvokeBatch resolves the matching kernel for batch's argument types and
// invokes it.
func (u *ScalarUDF) InvokeBatch(batch *columnar.Batch) (columnar.ColumnarValue, error) {
	argTypes := make([]geom.SedonaType, len(batch.Args))
	for i, a := range batch.Args {
		argTypes[i] = a.Type
	}
	k, err := u.ResolveKernel(argTypes)
	if err != nil {
		return columnar.ColumnarValue{}, err
	}
	return k.InvokeBatch(batch)
}
