package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/annel0/voxel-engine/internal/world"
	"github.com/annel0/voxel-engine/internal/world/block"
)

// chunkFormatVersion версия формата записи чанка
const chunkFormatVersion = 1

var (
	// ErrUnknownBlock в записи встретился незарегистрированный тип блока
	ErrUnknownBlock = errors.New("storage: unknown block")
	// ErrUnknownState в записи встретился незарегистрированный канал или значение
	ErrUnknownState = errors.New("storage: unknown block state")
	// ErrCorruptChunk запись чанка повреждена
	ErrCorruptChunk = errors.New("storage: corrupt chunk record")
)

// chunkRecord сериализованный чанк. Типы блоков хранятся через палитру
// строковых идентификаторов, поэтому плотные ID могут меняться между запусками.
type chunkRecord struct {
	Version int           `json:"version"`
	Coords  [3]int        `json:"coords"`
	Palette []string      `json:"palette"`
	Blocks  []uint16      `json:"blocks"`
	Light   []float32     `json:"light,omitempty"`
	States  []voxelStates `json:"states,omitempty"`
}

// voxelStates состояния одного вокселя: канал -> значение
type voxelStates struct {
	Index  int               `json:"i"`
	Values map[string]string `json:"v"`
}

func voxelIndex(x, y, z int) int {
	return x + world.ChunkSize*(y+world.ChunkSize*z)
}

func voxelCoords(i int) (x, y, z int) {
	return i % world.ChunkSize, (i / world.ChunkSize) % world.ChunkSize, i / world.ChunkArea
}

// encodeChunk сериализует содержимое чанка в JSON
func encodeChunk(ch *world.Chunk) ([]byte, error) {
	c := ch.Coords()
	rec := chunkRecord{
		Version: chunkFormatVersion,
		Coords:  [3]int{c.X, c.Y, c.Z},
		Blocks:  make([]uint16, world.ChunkVolume),
	}

	palette := make(map[*block.Type]uint16)
	light := make([]float32, world.ChunkVolume)
	hasLight := false

	for z := 0; z < world.ChunkSize; z++ {
		for y := 0; y < world.ChunkSize; y++ {
			for x := 0; x < world.ChunkSize; x++ {
				i := voxelIndex(x, y, z)

				t := ch.GetChunkBlock(x, y, z)
				idx, ok := palette[t]
				if !ok {
					idx = uint16(len(rec.Palette))
					palette[t] = idx
					rec.Palette = append(rec.Palette, t.Name)
				}
				rec.Blocks[i] = idx

				if l := ch.GetChunkLightValue(x, y, z); l != 0 {
					light[i] = l
					hasLight = true
				}

				states := ch.ChunkBlockStates(x, y, z)
				if len(states) == 0 {
					continue
				}
				vs := voxelStates{Index: i, Values: make(map[string]string, len(states))}
				for channel, value := range states {
					vs.Values[channel.Name()] = value.Name()
				}
				rec.States = append(rec.States, vs)
			}
		}
	}
	if hasLight {
		rec.Light = light
	}

	return json.Marshal(rec)
}

// decodeChunk восстанавливает чанк мира w из JSON
func decodeChunk(w *world.World, data []byte) (*world.Chunk, error) {
	var rec chunkRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptChunk, err)
	}
	if rec.Version != chunkFormatVersion {
		return nil, fmt.Errorf("%w: версия %d не поддерживается", ErrCorruptChunk, rec.Version)
	}
	if len(rec.Blocks) != world.ChunkVolume {
		return nil, fmt.Errorf("%w: %d блоков вместо %d", ErrCorruptChunk, len(rec.Blocks), world.ChunkVolume)
	}
	if rec.Light != nil && len(rec.Light) != world.ChunkVolume {
		return nil, fmt.Errorf("%w: %d значений освещённости", ErrCorruptChunk, len(rec.Light))
	}

	palette := make([]*block.Type, len(rec.Palette))
	for i, name := range rec.Palette {
		t, ok := w.Blocks().Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownBlock, name)
		}
		palette[i] = t
	}

	states := make(map[int][]*block.StateValue, len(rec.States))
	for _, vs := range rec.States {
		if vs.Index < 0 || vs.Index >= world.ChunkVolume {
			return nil, fmt.Errorf("%w: индекс вокселя %d", ErrCorruptChunk, vs.Index)
		}
		for channelName, valueName := range vs.Values {
			channel := w.States().GetState(channelName)
			if channel == nil {
				return nil, fmt.Errorf("%w: канал %q", ErrUnknownState, channelName)
			}
			value := w.States().GetValue(channel, valueName)
			if value == nil {
				return nil, fmt.Errorf("%w: %s=%s", ErrUnknownState, channelName, valueName)
			}
			states[vs.Index] = append(states[vs.Index], value)
		}
	}

	ch := world.NewChunk(w, world.ChunkCoord{X: rec.Coords[0], Y: rec.Coords[1], Z: rec.Coords[2]})
	for i, idx := range rec.Blocks {
		if int(idx) >= len(palette) {
			return nil, fmt.Errorf("%w: индекс палитры %d", ErrCorruptChunk, idx)
		}
		var light float32
		if rec.Light != nil {
			light = rec.Light[i]
		}
		x, y, z := voxelCoords(i)
		ch.RestoreVoxel(x, y, z, palette[idx], light, states[i])
	}
	ch.FinishRestore()
	return ch, nil
}
