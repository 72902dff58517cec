// Package app wires configuration, the rule script engine, validation
// rules and the symbol catalog into an Application used by the CLI.
//
// An Application is created from a configuration file and can build
// formula documents, validate formula text, reload its configuration and
// watch a formula file for changes:
//
//	a, err := app.New(app.Options{ConfigPath: "formulary.toml"})
//	if err != nil {
//		return err
//	}
//	defer a.Close()
//
//	report := a.Validate("(x+1")
//	fmt.Println(report.Result.Valid)
package app
