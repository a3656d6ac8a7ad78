/*
Package status reports per-file outcomes and overall progress of a pancake run.

	            +-------------+
	            |   Walker    |
	            +------+------+
	                   | FileEvent
	      +-----------+-----------+
	      |           |           |
	+-----+----+ +----+----+ +----+----+
	|   Bar    | |   Log   | |   Nop   |
	| (pterm)  | | (zlog)  | | (tests) |
	+----------+ +---------+ +---------+

🎯 Purpose:
- Show a progress bar when stdout is a terminal
- Fall back to structured log lines when it is not
- Stay silent in tests and quiet runs

🔄 Flow:
1. StartOperation with the scanned file total
2. TrackFile once per examined file, from any goroutine
3. FinishOperation prints the final tally

🤝 Interfaces:
- Reporter: implemented by BarReporter, LogReporter and Nop
- FileFormatter: turns events into human lines

The scanned total is an estimate taken before the walk; reporters must cope
with more events than announced.
*/
package status
