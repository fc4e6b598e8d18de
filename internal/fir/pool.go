package fir

// pool интернирует строки в порядке первого появления; индекс 0-based.
type pool struct {
	byID  []string
	index map[string]uint32
}

func newPool() *pool {
	return &pool{index: make(map[string]uint32)}
}

// intern возвращает индекс строки, добавляя её при первом появлении.
func (p *pool) intern(s string) (uint32, error) {
	if id, ok := p.index[s]; ok {
		return id, nil
	}
	id, err := u32(len(p.byID), "string pool size")
	if err != nil {
		return 0, err
	}
	if _, err := u32(len(s), "string length"); err != nil {
		return 0, err
	}
	p.byID = append(p.byID, s)
	p.index[s] = id
	return id, nil
}
