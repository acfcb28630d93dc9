package block

import "fmt"

// StateChannel именованная ось метаданных вокселя ("orientation", "electricPower")
type StateChannel struct {
	name   string
	values []*StateValue
	byName map[string]*StateValue
}

// Name возвращает имя канала
func (c *StateChannel) Name() string {
	return c.name
}

// String реализует fmt.Stringer
func (c *StateChannel) String() string {
	return c.name
}

// StateValue значение канала. Сравнивается по указателю: один экземпляр на ключ.
type StateValue struct {
	channel *StateChannel
	name    string
	ordinal int
}

// Name возвращает имя значения
func (v *StateValue) Name() string {
	return v.name
}

// Channel возвращает канал значения
func (v *StateValue) Channel() *StateChannel {
	return v.channel
}

// Ordinal возвращает порядковый номер значения внутри канала
func (v *StateValue) Ordinal() int {
	return v.ordinal
}

// String реализует fmt.Stringer
func (v *StateValue) String() string {
	return v.channel.name + "=" + v.name
}

// States реестр каналов состояний: двухуровневое пространство имён канал → значение
type States struct {
	channels map[string]*StateChannel
	order    []*StateChannel
	closed   bool
}

// NewStates создаёт пустой реестр состояний
func NewStates() *States {
	return &States{
		channels: make(map[string]*StateChannel),
	}
}

// RegisterState регистрирует новый канал
func (s *States) RegisterState(name string) (*StateChannel, error) {
	if s.closed {
		return nil, fmt.Errorf("%w: канал %q", ErrRegistryClosed, name)
	}
	if _, ok := s.channels[name]; ok {
		return nil, fmt.Errorf("%w: канал %q", ErrDuplicateID, name)
	}
	ch := &StateChannel{
		name:   name,
		byName: make(map[string]*StateValue),
	}
	s.channels[name] = ch
	s.order = append(s.order, ch)
	return ch, nil
}

// RegisterValue добавляет значение в канал
func (s *States) RegisterValue(ch *StateChannel, name string) (*StateValue, error) {
	if s.closed {
		return nil, fmt.Errorf("%w: значение %s=%s", ErrRegistryClosed, ch.name, name)
	}
	if s.channels[ch.name] != ch {
		return nil, fmt.Errorf("block: канал %q не зарегистрирован в этом реестре", ch.name)
	}
	if _, ok := ch.byName[name]; ok {
		return nil, fmt.Errorf("%w: значение %s=%s", ErrDuplicateID, ch.name, name)
	}
	v := &StateValue{
		channel: ch,
		name:    name,
		ordinal: len(ch.values),
	}
	ch.byName[name] = v
	ch.values = append(ch.values, v)
	return v, nil
}

// MustRegisterState как RegisterState, но паникует при ошибке
func (s *States) MustRegisterState(name string, values ...string) *StateChannel {
	ch, err := s.RegisterState(name)
	if err != nil {
		panic(err)
	}
	for _, v := range values {
		if _, err := s.RegisterValue(ch, v); err != nil {
			panic(err)
		}
	}
	return ch
}

// Close запрещает дальнейшую регистрацию
func (s *States) Close() {
	s.closed = true
}

// GetState ищет канал по имени; nil, если не найден
func (s *States) GetState(name string) *StateChannel {
	return s.channels[name]
}

// GetValue ищет значение канала по имени; nil, если не найдено
func (s *States) GetValue(ch *StateChannel, name string) *StateValue {
	if ch == nil {
		return nil
	}
	return ch.byName[name]
}

// Values возвращает значения канала в порядке регистрации
func (s *States) Values(ch *StateChannel) []*StateValue {
	out := make([]*StateValue, len(ch.values))
	copy(out, ch.values)
	return out
}

// Channels возвращает каналы в порядке регистрации
func (s *States) Channels() []*StateChannel {
	out := make([]*StateChannel, len(s.order))
	copy(out, s.order)
	return out
}
