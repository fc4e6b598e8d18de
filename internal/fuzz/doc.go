// Package fuzztests houses Go fuzz harnesses for the template pipeline
// (source -> lexer -> parser -> validator -> encoder). They guard against
// panics, hangs and non-deterministic output on arbitrary input.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
