package implementations

import (
	"fmt"

	"github.com/annel0/voxel-engine/internal/world/block"
)

// Имена каналов состояний
const (
	OrientationState   = "orientation"
	ConnexionsState    = "connexions"
	ElectricPowerState = "electricPower"
)

// MaxPower наибольшая мощность сигнала
const MaxPower = 15

// Connexion биты соединений кабеля с горизонтальными соседями
type Connexion uint8

const (
	ConnectNorth Connexion = 1 << iota
	ConnectSouth
	ConnectEast
	ConnectWest
)

// connexionSides грани в порядке битов Connexion
var connexionSides = [...]block.Side{block.SideNorth, block.SideSouth, block.SideEast, block.SideWest}

// ConnexionName имя значения канала connexions для маски соединений
func ConnexionName(mask Connexion) string {
	if mask == 0 {
		return "none"
	}
	letters := "nsew"
	name := make([]byte, 0, 4)
	for i := range connexionSides {
		if mask&(1<<i) != 0 {
			name = append(name, letters[i])
		}
	}
	return string(name)
}

// PowerName имя значения канала electricPower
func PowerName(p int) string {
	return fmt.Sprintf("power%d", p)
}

// StateChannels каналы состояний стандартного набора блоков
type StateChannels struct {
	Orientation   *block.StateChannel // Ось бревна: имя грани, от которой оно поставлено
	Connexions    *block.StateChannel // Форма кабеля
	ElectricPower *block.StateChannel // power0..power15, порядковый номер равен мощности
}

// RegisterStates регистрирует каналы и их значения
func RegisterStates(s *block.States) (*StateChannels, error) {
	var err error
	ch := &StateChannels{}

	if ch.Orientation, err = registerChannel(s, OrientationState, sideNames()); err != nil {
		return nil, err
	}

	connexions := make([]string, 0, 16)
	for mask := Connexion(0); mask < 16; mask++ {
		connexions = append(connexions, ConnexionName(mask))
	}
	if ch.Connexions, err = registerChannel(s, ConnexionsState, connexions); err != nil {
		return nil, err
	}

	powers := make([]string, 0, MaxPower+1)
	for p := 0; p <= MaxPower; p++ {
		powers = append(powers, PowerName(p))
	}
	if ch.ElectricPower, err = registerChannel(s, ElectricPowerState, powers); err != nil {
		return nil, err
	}
	return ch, nil
}

func registerChannel(s *block.States, name string, values []string) (*block.StateChannel, error) {
	ch, err := s.RegisterState(name)
	if err != nil {
		return nil, fmt.Errorf("регистрация канала %s: %w", name, err)
	}
	for _, v := range values {
		if _, err := s.RegisterValue(ch, v); err != nil {
			return nil, fmt.Errorf("регистрация значения %s=%s: %w", name, v, err)
		}
	}
	return ch, nil
}

func sideNames() []string {
	names := make([]string, 0, len(block.Sides))
	for _, s := range block.Sides {
		names = append(names, s.String())
	}
	return names
}
