package diag

import (
	"slices"
	"sort"
)

// Bag: контейнер для диагностик с лимитом
type Bag struct {
	items []Diagnostic
	max   uint16
}

// NewBag создает новый Bag с указанным лимитом; 0 означает "без лимита".
func NewBag(maxItems int) *Bag {
	if maxItems < 0 {
		maxItems = 0
	}
	if maxItems > 0xFFFF {
		maxItems = 0xFFFF
	}
	return &Bag{
		items: make([]Diagnostic, 0),
		max:   uint16(maxItems), //nolint:gosec // clamped above
	}
}

// Add добавляет диагностику в Bag, возвращает false если превышен лимит
func (b *Bag) Add(d Diagnostic) bool {
	if b.max > 0 && len(b.items) >= int(b.max) {
		return false
	}
	b.items = append(b.items, d)
	return true
}

// Cap возвращает лимит Bag; 0 означает отсутствие лимита.
func (b *Bag) Cap() int {
	return int(b.max)
}

// Len возвращает количество диагностик в Bag
func (b *Bag) Len() int {
	return len(b.items)
}

// HasErrors проверяет, есть ли ошибки в Bag
func (b *Bag) HasErrors() bool {
	for _, d := range b.items {
		if d.Severity >= SevError {
			return true
		}
	}
	return false
}

// HasWarnings проверяет, есть ли предупреждения в Bag
func (b *Bag) HasWarnings() bool {
	for _, d := range b.items {
		if d.Severity == SevWarning {
			return true
		}
	}
	return false
}

// ErrorCount возвращает количество ошибок.
func (b *Bag) ErrorCount() int {
	n := 0
	for _, d := range b.items {
		if d.Severity >= SevError {
			n++
		}
	}
	return n
}

// Items возвращает копию всех диагностик
func (b *Bag) Items() []Diagnostic {
	return slices.Clone(b.items)
}

// Errors возвращает только диагностики уровня ошибки.
func (b *Bag) Errors() []Diagnostic {
	return b.filter(func(d Diagnostic) bool { return d.Severity >= SevError })
}

// Warnings возвращает только предупреждения.
func (b *Bag) Warnings() []Diagnostic {
	return b.filter(func(d Diagnostic) bool { return d.Severity == SevWarning })
}

func (b *Bag) filter(keep func(Diagnostic) bool) []Diagnostic {
	var out []Diagnostic
	for _, d := range b.items {
		if keep(d) {
			out = append(out, d)
		}
	}
	return out
}

// Merge объединяет другой Bag в текущий
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	for _, d := range other.items {
		if !b.Add(d) {
			return
		}
	}
}

// Sort сортирует диагностики по файлу, позиции, severity (desc) и коду
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Primary.File != dj.Primary.File {
			return di.Primary.File < dj.Primary.File
		}
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		return di.Code < dj.Code
	})
}

// Dedup удаляет дубликаты (по code+span+message), сохраняя порядок первых.
func (b *Bag) Dedup() {
	if len(b.items) <= 1 {
		return
	}
	seen := make(map[dedupKey]struct{}, len(b.items))
	out := b.items[:0]
	for _, d := range b.items {
		k := keyOf(d)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, d)
	}
	b.items = out
}

// Err returns nil when the bag holds no errors, otherwise an *Error carrying
// every error-severity diagnostic in bag order.
func (b *Bag) Err() error {
	errs := b.Errors()
	if len(errs) == 0 {
		return nil
	}
	return &Error{Diagnostics: errs}
}
