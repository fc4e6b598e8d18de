// Package token defines lexical token kinds for the fragment DSL.
// Invariants:
//   - Token.Text is a slice of the original source (no copies).
//   - Token.Span matches Text exactly (Start..End).
//   - Token.Value holds the decoded payload for Text runs and string literals;
//     for every other kind it equals Text.
//   - Comments ({# ... #}) never reach the token stream.
//   - Keywords are recognised only inside {{ }} and {% %}; in text mode every
//     byte belongs to a Text token.
package token
