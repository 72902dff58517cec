// Package script runs custom validation rules written in Lua.
//
// A rule script is a Lua chunk evaluated once per validation. It sees two
// globals and must return a boolean:
//
//	formula   the formula text being validated
//	elements  an array of tables {kind=, value=, id=, children=}
//
// For example:
//
//	-- require at least one variable
//	for _, e in ipairs(elements) do
//	  if e.kind == "variable" then return true end
//	end
//	return false
//
// Scripts run in a sandbox with only the base, table, string and math
// libraries and without dofile, loadfile, load, loadstring or require.
package script
