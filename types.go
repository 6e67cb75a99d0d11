package pmmif

// FieldType enumerates the value types a dataset column may carry. The set is
// closed: anything else is rejected by the Validator, never silently accepted.
type FieldType string

const (
	TypeBoolean   FieldType = "boolean"
	TypeInteger   FieldType = "integer"
	TypeReal      FieldType = "real"
	TypeString    FieldType = "string"
	TypeDatestamp FieldType = "datestamp" // requires Field.Format
)

// FieldTypes lists the recognized types in declaration order.
var FieldTypes = []FieldType{TypeBoolean, TypeInteger, TypeReal, TypeString, TypeDatestamp}

// Known reports whether t is one of the recognized field types.
func (t FieldType) Known() bool {
	switch t {
	case TypeBoolean, TypeInteger, TypeReal, TypeString, TypeDatestamp:
		return true
	}
	return false
}

// Role enumerates the modelling function assigned to a field.
type Role string

const (
	RoleIndependent Role = "independent" // left-hand side; predictor
	RoleDependent   Role = "dependent"   // right-hand side; outcome
	RoleTreatment   Role = "treatment"   // specifies which treatment, if any
	RoleWeight      Role = "weight"      // weight field of some kind
	RoleValidation  Role = "validation"  // cross-validation partition
	RoleAuxiliary   Role = "auxiliary"   // auxiliary field, e.g. a value field
	RoleIgnore      Role = "ignore"      // present in the data but not modelled

	// RoleUnspecified is the empty role. Legacy writers emit it; the
	// Validator flags it as a warning rather than an error.
	RoleUnspecified Role = ""
)

// Roles lists the recognized non-empty roles in declaration order.
var Roles = []Role{
	RoleIndependent, RoleDependent, RoleTreatment, RoleWeight,
	RoleValidation, RoleAuxiliary, RoleIgnore,
}

// Known reports whether r is one of the seven recognized roles. The empty
// role is not Known; callers that tolerate it check for RoleUnspecified.
func (r Role) Known() bool {
	switch r {
	case RoleIndependent, RoleDependent, RoleTreatment, RoleWeight,
		RoleValidation, RoleAuxiliary, RoleIgnore:
		return true
	}
	return false
}

// Recognized tag keys. Unrecognized tags pass through opaquely.
const (
	TagCategorical = "categorical"
	TagOrdinal     = "ordinal" // value: ordered category labels, low to high
	TagUnique      = "unique"
	TagMaximize    = "maximize"
	TagMinimize    = "minimize"
)

// KnownTag reports whether key is one of the five recognized tag keys.
func KnownTag(key string) bool {
	switch key {
	case TagCategorical, TagOrdinal, TagUnique, TagMaximize, TagMinimize:
		return true
	}
	return false
}

// Severity expresses the severity level of a Diagnostic.
type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return "info"
	}
}

// MarshalJSON renders the severity as its name so diagnostic listings stay
// readable outside this package.
func (s Severity) MarshalJSON() ([]byte, error) { return []byte(`"` + s.String() + `"`), nil }

// MarshalYAML renders the severity as its name.
func (s Severity) MarshalYAML() (any, error) { return s.String(), nil }
