package dao

// Parameter names understood by snapshot stores.
const (
	// ParamPID keeps snapshots in which the pid is alive.
	ParamPID = "PID"
	// ParamMinTicks keeps snapshots taken at or after a tick count.
	ParamMinTicks = "MinTicks"
)

// Parameter is a List filter.
type Parameter struct {
	Name  string
	Value interface{}
}

// NewParameter creates a filter parameter.
func NewParameter(name string, value interface{}) *Parameter {
	return &Parameter{Name: name, Value: value}
}
