package token

var keywords = map[string]Kind{
	"if":       KwIf,
	"elif":     KwElif,
	"else":     KwElse,
	"for":      KwFor,
	"in":       KwIn,
	"include":  KwInclude,
	"call":     KwCall,
	"fragment": KwFragment,
	"end":      KwEnd,
	"and":      KwAnd,
	"or":       KwOr,
	"not":      KwNot,
	"true":     BoolLit,
	"false":    BoolLit,
	"nil":      NilLit,
}

// LookupKeyword возвращает тип и bool если это ключевое слово.
// Ключевые слова регистрозависимые: только lowercase версии распознаются.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
