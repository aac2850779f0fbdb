// Package answers provides the answer grammars used to turn raw model output
// into typed [tasksolver.ParsedAnswer] values.
//
// # Available Grammars
//
//   - [YesNo]: a single yes/no decision
//   - [YesNoWhy]: a decision preceded by its reasoning, marked with [#reason] and [#finalanswer]
//   - [LeftOrRight]: "left" or "right" inside a ``` fenced block
//   - [StarredList]: a "* item" bullet list
//   - [Number]: a bare non-negative integer
//   - [Code]: the last fenced code block of a language (python by default)
//   - [CodeDiff]: a Before/After pair of code blocks
//   - [Text]: anything, unparsed
//
// Each grammar has an [tasksolver.AnswerType] descriptor (YesNoType, ...) that
// bundles its parser with the format guidance shown to models. Task files
// refer to grammars by name through [Lookup].
//
// # Parse Failures
//
// Parsers return a *[tasksolver.ParseError] when the text does not fit. The
// solver treats that as retryable and asks the model again.
package answers
