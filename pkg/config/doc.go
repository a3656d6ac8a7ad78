/*
Package config holds the run configuration for pancake and loads project
config files.

	            +-------------+
	            |   Config    |
	            | (resolved)  |
	            +------+------+
	                   |
	      +-----------+-----------+
	      |           |           |
	+-----+----+ +----+----+ +----+----+
	|   YAML   | |   HCL   | |  JSON   |
	|  Parser  | |  Parser | |  Parser |
	+----------+ +---------+ +---------+

🎯 Purpose:
- Provide the built-in defaults
- Parse .pancake.{yaml,yml,hcl,json} from the source directory
- Validate and resolve the final configuration

🔄 Layering (lowest to highest):
 1. Defaults
 2. Project config file
 3. PANCAKE_* environment variables
 4. Command line flags

The command wires layers 3 and 4 through viper; this package only knows
about defaults and files. A File keeps unset keys nil so a config file never
overrides a default with a zero value it did not mention.

🔍 Example:

	f, err := config.Load(ctx, ".pancake.yaml")
	if err != nil {
		return err
	}
	cfg := config.Default()
	cfg.Source = "."
	f.Apply(cfg)
	if err := cfg.Resolve(); err != nil {
		return err
	}
*/
package config
