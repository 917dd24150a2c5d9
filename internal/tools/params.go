package tools

// wrapperKey is the reserved key some MCP clients nest the real argument
// mapping under instead of sending it flat.
const wrapperKey = "kwargs"

// Normalize flattens the two accepted invocation argument shapes into one:
// either the arguments already are the flat parameter mapping, or they hold a
// single nested mapping under the wrapper key. Unwrapping is lossless and
// idempotent; nothing else is renamed or dropped.
func Normalize(args map[string]any) map[string]any {
	if len(args) == 1 {
		if nested, ok := args[wrapperKey].(map[string]any); ok {
			return nested
		}
	}
	return args
}

// Param looks up a parameter across both argument shapes, returning def when
// the key is absent. Required-parameter enforcement is the calling tool's
// job, not this function's.
func Param(args map[string]any, name string, def any) any {
	if v, ok := Normalize(args)[name]; ok {
		return v
	}
	return def
}

// StringParam is Param for string-typed parameters. Values of any other type
// fall back to def.
func StringParam(args map[string]any, name, def string) string {
	if v, ok := Param(args, name, def).(string); ok {
		return v
	}
	return def
}
