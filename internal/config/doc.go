// Package config loads formulary configuration.
//
// Configuration is read from a single file whose format follows its
// extension (.toml, .yaml/.yml or .json) and is then overridden by
// FORMULARY_* environment variables:
//
//	[logging]
//	level = "debug"
//
//	[parser]
//	extra_functions = ["max", "min"]
//
//	[validation]
//	auto_validate = true
//
//	[[validation.rules]]
//	type = "bracketsMatch"
//
//	[[validation.rules]]
//	type = "custom"
//	message = "needs a variable"
//	script_file = "rules/has_variable.lua"
//
//	[[symbols.groups]]
//	name = "units"
//	display_name = "Units"
//	symbols = [{ value = "°", description = "degree" }]
//
// A missing file is not an error; Load returns the defaults.
package config
