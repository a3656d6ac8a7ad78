/*
Package operation runs a pancake flatten from start to finish.

	+-------+    +----------+    +---------+    +-----------+    +------+
	| Init  | -> | Scanning | -> | Walking | -> | Reporting | -> | Done |
	+-------+    +----------+    +---------+    +-----------+    +------+

🎯 Purpose:
- Resolve the configuration and lock the output directory
- Clear a non-empty output only with force or a Confirmer's consent
- Build the pattern groups, the exclusion policy and the walker
- Walk the source into a fresh session and write the reports

🔄 Flow:
 1. Init: resolve paths, take the run lock, prepare the output directory
 2. Scanning (optional): count files so progress has a total
 3. Walking: prune, filter, flatten and copy
 4. Reporting: write the 00_* reports into the output

Anything that goes wrong with a single file is recorded in the session and
reported; Execute only returns errors that abort the run.

🔍 Example:

	op, err := operation.NewFlattenOperation(operation.Options{
		Config:   cfg,
		Reporter: status.Nop{},
	})
	if err != nil {
		return err
	}
	if err := operation.NewRunner(zerolog.Ctx(ctx), false).Run(ctx, op); err != nil {
		return err
	}
*/
package operation
