package toolskema

// UnknownPolicy decides what an object schema does with keys it has no field for.
type UnknownPolicy int

const (
	// UnknownStrict reports each unknown key as unknown_key. Default of dsl.Object().
	UnknownStrict UnknownPolicy = iota
	// UnknownStrip drops unknown keys from the parsed value.
	UnknownStrip
	// UnknownPassthrough copies unknown keys into the parsed value, either at
	// the top level or under a target field.
	UnknownPassthrough
)

func (p UnknownPolicy) String() string {
	switch p {
	case UnknownStrip:
		return "strip"
	case UnknownPassthrough:
		return "passthrough"
	default:
		return "strict"
	}
}

// NumberMode selects the Go type JSON numbers decode to.
type NumberMode int

const (
	NumberFloat64    NumberMode = iota // float64; large integers may lose precision
	NumberJSONNumber                   // json.Number, the literal text
)

// Severity is the reaction to a non-structural input problem.
type Severity int

const (
	Ignore Severity = iota
	Warn            // report through ParseOpt.OnWarn and continue
	Error           // fail the parse
)

// Strictness groups the input checks that are not part of any schema.
type Strictness struct {
	OnDuplicateKey Severity
}

// ParseOpt configures ParseFrom and StreamParse. The zero value ignores
// duplicate keys and sets no depth or size limit.
type ParseOpt struct {
	Strictness Strictness
	MaxDepth   int   // maximum container nesting, 0 for no limit
	MaxBytes   int64 // maximum input size, 0 for no limit
	FailFast   bool  // stop at the first issue
	OnWarn     func(Issue)
}
