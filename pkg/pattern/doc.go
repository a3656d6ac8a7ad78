/*
Package pattern implements the exclusion pattern grammar used by pancake.

	+-------------+      +-------------+      +-------------+
	|  raw string | ---> |  Classify   | ---> |   Pattern   |
	| ".git", "*" |      | (once)      |      | Kind+Source |
	+-------------+      +-------------+      +------+------+
	                                                 |
	                                          Match(relPath)

🎯 Purpose:
  - Turn raw pattern strings into a small tagged variant (Kind) at configuration time
  - Match relative paths against a pattern with a fixed rule order
  - Hold the three pattern groups (default, user, ignore-file) in one Set
  - Parse project ignore files into patterns

📏 Rules, first match wins:
 1. exact equality with the relative path
 2. equality with the basename
 3. equality with any whole path segment
 4. trailing separator: the directory itself or anything below it
 5. trailing "/**": the base itself or anything below it
 6. trailing "/*": direct children of the base only
 7. any other "*" or "?": shell glob against the path (and the basename when the glob has no separator)
 8. loose fallback for non-glob patterns: path prefix or plain substring

⚠️ Rule 8 is intentionally permissive. A pattern such as "lib" also matches
"library/file.txt". It is kept for compatibility with existing ignore lists.

This is not a full gitignore implementation. Negation lines ("!pattern") in
ignore files are parsed and counted but never applied.
*/
package pattern
