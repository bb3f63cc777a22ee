// Package sources provides the question sources a quiz can be filled from.
//
// Every source implements QuestionSource and returns canonical
// question.Question records:
//   - LocalSource: a fixed set of statements, no I/O, never fails
//   - OpenTDBSource: true/false items from the Open Trivia DB API
//   - QuizAPISource: multiple-answer items from QuizAPI, reduced to a
//     true/false judgment about one randomly chosen answer; needs an API token
//
// Remote failures never escape as transport errors. They are reported as an
// *Error of kind KindNoData so the provider can move on to another source.
// A missing QuizAPI token is reported as KindMissingAPIToken before any
// request is made.
//
// NewSourceFactory builds sources by name from the loaded configuration.
package sources
