package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/annel0/voxel-engine/internal/eventbus"
	"github.com/annel0/voxel-engine/internal/storage"
	"github.com/annel0/voxel-engine/internal/world"
	"github.com/annel0/voxel-engine/internal/world/block"
	"github.com/gin-gonic/gin"
	"github.com/go-gl/mathgl/mgl64"
)

// MaxRaycastDistance предел дальности луча для отладочного запроса
const MaxRaycastDistance = 64.0

// DefaultRaycastDistance дальность луча по умолчанию
const DefaultRaycastDistance = 8.0

// WorldResponse сводка о мире
type WorldResponse struct {
	Name     string `json:"name"`
	Seed     int64  `json:"seed"`
	Ticks    uint64 `json:"ticks"`
	Chunks   int    `json:"chunks"`
	Entities int    `json:"entities"`
}

// BlockResponse описание вокселя
type BlockResponse struct {
	X          int               `json:"x"`
	Y          int               `json:"y"`
	Z          int               `json:"z"`
	Loaded     bool              `json:"loaded"`
	Block      string            `json:"block"`
	ID         block.ID          `json:"id"`
	Light      float32           `json:"light"`
	States     map[string]string `json:"states,omitempty"`
	Power      int               `json:"power"`
	SkyVisible bool              `json:"sky_visible"`
}

// PlaceRequest запрос на установку блока
type PlaceRequest struct {
	Block string `json:"block" binding:"required"`
	Side  string `json:"side"`
}

// ChunkResponse сводка о чанке
type ChunkResponse struct {
	Coords    [3]int         `json:"coords"`
	Dirty     bool           `json:"dirty"`
	Blocks    map[string]int `json:"blocks"`
	Heightmap [][]int        `json:"heightmap"` // [x][z], -1 для пустой колонки
}

// RaycastRequest запрос луча: от глаз игрока или из точки по углам
type RaycastRequest struct {
	Player      string      `json:"player"`
	Origin      *[3]float64 `json:"origin"`
	Yaw         float64     `json:"yaw"`
	Pitch       float64     `json:"pitch"`
	MaxDistance float64     `json:"max_distance"`
}

// RaycastResponse результат луча
type RaycastResponse struct {
	Type     string  `json:"type"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Z        float64 `json:"z"`
	Side     string  `json:"side,omitempty"`
	Distance float64 `json:"distance"`
	Block    string  `json:"block,omitempty"`
	EntityID string  `json:"entity_id,omitempty"`
}

// EntityResponse описание сущности
type EntityResponse struct {
	ID       string     `json:"id"`
	Type     string     `json:"type"`
	Name     string     `json:"name,omitempty"`
	Position [3]float64 `json:"position"`
	Yaw      float64    `json:"yaw"`
	Pitch    float64    `json:"pitch"`
}

// JoinRequest вход игрока
type JoinRequest struct {
	Name string `json:"name" binding:"required"`
}

// parseInts читает целые параметры пути; при ошибке отвечает 400
func parseInts(c *gin.Context, names ...string) ([]int, bool) {
	out := make([]int, len(names))
	for i, name := range names {
		v, err := strconv.Atoi(c.Param(name))
		if err != nil {
			respond(c, http.StatusBadRequest, fmt.Sprintf("Неверный параметр %s", name), nil)
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

func (rs *RestServer) describeWorld() WorldResponse {
	w := rs.world
	return WorldResponse{
		Name:     w.Name(),
		Seed:     w.Seed(),
		Ticks:    w.Ticks(),
		Chunks:   len(w.Provider().Chunks()),
		Entities: len(w.Entities()),
	}
}

func (rs *RestServer) handleWorld(c *gin.Context) {
	var resp WorldResponse
	rs.world.Locked(func() { resp = rs.describeWorld() })
	respond(c, http.StatusOK, "Мир", resp)
}

// handleStats возвращает показатели процесса и мира
func (rs *RestServer) handleStats(c *gin.Context) {
	var w WorldResponse
	rs.world.Locked(func() { w = rs.describeWorld() })
	respond(c, http.StatusOK, "Статистика получена", gin.H{
		"process": rs.metrics.Snapshot(),
		"world":   w,
	})
}

func (rs *RestServer) describeBlock(x, y, z int) BlockResponse {
	w := rs.world
	t := w.GetBlockAt(x, y, z)
	resp := BlockResponse{
		X:          x,
		Y:          y,
		Z:          z,
		Loaded:     w.Chunk(x, y, z) != nil,
		Block:      t.Name,
		ID:         t.ID(),
		Light:      w.GetLightValue(x, y, z),
		Power:      w.DirectElectricPowerAt(x, y, z),
		SkyVisible: w.CanBlockSeeSky(x, y, z),
	}
	if states := w.BlockStates(x, y, z); len(states) > 0 {
		resp.States = make(map[string]string, len(states))
		for ch, v := range states {
			resp.States[ch.Name()] = v.Name()
		}
	}
	return resp
}

func (rs *RestServer) handleGetBlock(c *gin.Context) {
	p, ok := parseInts(c, "x", "y", "z")
	if !ok {
		return
	}
	var resp BlockResponse
	rs.world.Locked(func() { resp = rs.describeBlock(p[0], p[1], p[2]) })
	respond(c, http.StatusOK, "Блок", resp)
}

// handlePlaceBlock ставит блок с полным каскадом обновлений
func (rs *RestServer) handlePlaceBlock(c *gin.Context) {
	p, ok := parseInts(c, "x", "y", "z")
	if !ok {
		return
	}
	var req PlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, "Неверный формат запроса", nil)
		return
	}
	t, ok := rs.world.Blocks().Lookup(req.Block)
	if !ok {
		respond(c, http.StatusBadRequest, fmt.Sprintf("Неизвестный блок %q", req.Block), nil)
		return
	}
	side := block.SideTop
	if req.Side != "" {
		if side, ok = block.ParseSide(req.Side); !ok {
			respond(c, http.StatusBadRequest, fmt.Sprintf("Неизвестная грань %q", req.Side), nil)
			return
		}
	}

	var placed bool
	var resp BlockResponse
	rs.world.Locked(func() {
		if placed = rs.world.PlaceBlock(p[0], p[1], p[2], t, side, nil); placed {
			resp = rs.describeBlock(p[0], p[1], p[2])
		}
	})
	if !placed {
		respond(c, http.StatusNotFound, "Чанк не загружен", nil)
		return
	}
	rs.publish(c.Request.Context(), eventbus.EventBlockPlaced, eventbus.PriorityLow, resp)
	respond(c, http.StatusOK, "Блок установлен", resp)
}

func describeChunk(ch *world.Chunk) ChunkResponse {
	c := ch.Coords()
	resp := ChunkResponse{
		Coords:    [3]int{c.X, c.Y, c.Z},
		Dirty:     ch.IsDirty(),
		Blocks:    make(map[string]int),
		Heightmap: make([][]int, world.ChunkSize),
	}
	for x := 0; x < world.ChunkSize; x++ {
		resp.Heightmap[x] = make([]int, world.ChunkSize)
		for z := 0; z < world.ChunkSize; z++ {
			resp.Heightmap[x][z] = ch.Highest(x, z)
			for y := 0; y < world.ChunkSize; y++ {
				resp.Blocks[ch.GetChunkBlock(x, y, z).Name]++
			}
		}
	}
	return resp
}

func (rs *RestServer) handleGetChunk(c *gin.Context) {
	p, ok := parseInts(c, "cx", "cy", "cz")
	if !ok {
		return
	}
	var resp ChunkResponse
	var found bool
	rs.world.Locked(func() {
		if ch := rs.world.ChunkAt(world.ChunkCoord{X: p[0], Y: p[1], Z: p[2]}); ch != nil {
			resp, found = describeChunk(ch), true
		}
	})
	if !found {
		respond(c, http.StatusNotFound, "Чанк не загружен", nil)
		return
	}
	respond(c, http.StatusOK, "Чанк", resp)
}

// handleLoadChunk загружает чанк; ?generate=false только ищет среди загруженных
func (rs *RestServer) handleLoadChunk(c *gin.Context) {
	p, ok := parseInts(c, "cx", "cy", "cz")
	if !ok {
		return
	}
	generate := c.DefaultQuery("generate", "true") == "true"

	var resp ChunkResponse
	var found bool
	rs.world.Locked(func() {
		if ch := rs.world.LoadChunk(world.ChunkCoord{X: p[0], Y: p[1], Z: p[2]}, generate); ch != nil {
			resp, found = describeChunk(ch), true
		}
	})
	if !found {
		respond(c, http.StatusNotFound, "Чанк не загружен", nil)
		return
	}
	rs.publish(c.Request.Context(), eventbus.EventChunkLoaded, eventbus.PriorityLow, gin.H{"coords": resp.Coords})
	respond(c, http.StatusOK, "Чанк загружен", resp)
}

// findPlayer ищет живого игрока по имени. Вызывается под блокировкой мира.
func (rs *RestServer) findPlayer(name string) *world.Player {
	for _, e := range rs.world.Entities() {
		if p, ok := e.(*world.Player); ok && p.Name == name && !p.IsDead() {
			return p
		}
	}
	return nil
}

func (rs *RestServer) handleRaycast(c *gin.Context) {
	var req RaycastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, "Неверный формат запроса", nil)
		return
	}
	if req.MaxDistance == 0 {
		req.MaxDistance = DefaultRaycastDistance
	}
	if req.MaxDistance < 0 || req.MaxDistance > MaxRaycastDistance {
		respond(c, http.StatusBadRequest, fmt.Sprintf("Дальность должна быть в (0, %.0f]", MaxRaycastDistance), nil)
		return
	}
	if req.Player == "" && req.Origin == nil {
		respond(c, http.StatusBadRequest, "Нужен player или origin", nil)
		return
	}

	var out world.CollisionInfo
	var missingPlayer bool
	rs.world.Locked(func() {
		var sender world.Entity
		if req.Player != "" {
			p := rs.findPlayer(req.Player)
			if p == nil {
				missingPlayer = true
				return
			}
			sender = p
		} else {
			o := req.Origin
			sender = world.NewProbe(mgl64.Vec3{o[0], o[1], o[2]}, world.DirectionVector(req.Yaw, req.Pitch))
		}
		rs.world.PerformRayCast(sender, &out, req.MaxDistance)
	})
	if missingPlayer {
		respond(c, http.StatusNotFound, fmt.Sprintf("Игрок %s не найден", req.Player), nil)
		return
	}

	resp := RaycastResponse{
		Type:     out.Type.String(),
		X:        out.X,
		Y:        out.Y,
		Z:        out.Z,
		Distance: out.Distance,
	}
	switch out.Type {
	case world.CollisionBlock:
		resp.Side = out.Side.String()
		if t, ok := out.Block(); ok {
			resp.Block = t.Name
		}
	case world.CollisionEntity:
		if e, ok := out.Entity(); ok {
			resp.EntityID = e.ID().String()
		}
	}
	respond(c, http.StatusOK, "Луч", resp)
}

func describeEntity(e world.Entity) EntityResponse {
	pos := e.Position()
	resp := EntityResponse{
		ID:       e.ID().String(),
		Type:     e.Type().String(),
		Position: [3]float64{pos.X(), pos.Y(), pos.Z()},
	}
	if r, ok := e.(interface{ Rotation() (float64, float64) }); ok {
		resp.Yaw, resp.Pitch = r.Rotation()
	}
	if p, ok := e.(*world.Player); ok {
		resp.Name = p.Name
	}
	return resp
}

func (rs *RestServer) handleEntities(c *gin.Context) {
	var resp []EntityResponse
	rs.world.Locked(func() {
		for _, e := range rs.world.Entities() {
			resp = append(resp, describeEntity(e))
		}
	})
	respond(c, http.StatusOK, fmt.Sprintf("Сущностей: %d", len(resp)), resp)
}

// spawnPoint точка появления над поверхностью в начале координат
func (rs *RestServer) spawnPoint() mgl64.Vec3 {
	y := 0.0
	if g := rs.world.Generator(); g != nil {
		y = float64(g.SurfaceHeight(0, 0, g.Seed()) + 1)
	}
	return mgl64.Vec3{0.5, y, 0.5}
}

// handleJoin создаёт игрока, восстанавливая сохранённое положение.
// Игрок появляется в мире со следующего тика.
func (rs *RestServer) handleJoin(c *gin.Context) {
	var req JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, "Неверный формат запроса", nil)
		return
	}

	st, restored, err := rs.players.Load(c.Request.Context(), req.Name)
	if err != nil {
		rs.logger.Error("Ошибка загрузки игрока %s: %v", req.Name, err)
		respond(c, http.StatusInternalServerError, "Ошибка загрузки игрока", nil)
		return
	}

	var p *world.Player
	var exists bool
	rs.world.Locked(func() {
		if rs.findPlayer(req.Name) != nil {
			exists = true
			return
		}
		p = world.NewPlayer(req.Name, rs.spawnPoint())
		if restored {
			st.Apply(p)
		}
		rs.world.Spawn(p)
	})
	if exists {
		respond(c, http.StatusConflict, fmt.Sprintf("Игрок %s уже в мире", req.Name), nil)
		return
	}

	rs.logger.Info("Игрок %s вошёл (восстановлен: %v)", req.Name, restored)
	rs.publish(c.Request.Context(), eventbus.EventPlayerJoined, eventbus.PriorityHigh, gin.H{"name": req.Name, "restored": restored})
	respond(c, http.StatusCreated, "Игрок создан", gin.H{
		"entity":   describeEntity(p),
		"restored": restored,
	})
}

// handleLeave сохраняет положение игрока и убирает его из мира
func (rs *RestServer) handleLeave(c *gin.Context) {
	name := c.Param("name")

	var st storage.PlayerState
	var found bool
	rs.world.Locked(func() {
		if p := rs.findPlayer(name); p != nil {
			st, found = storage.PlayerStateOf(p), true
			p.Kill()
		}
	})
	if !found {
		respond(c, http.StatusNotFound, fmt.Sprintf("Игрок %s не найден", name), nil)
		return
	}

	if err := rs.players.Save(c.Request.Context(), name, st); err != nil {
		rs.logger.Error("Ошибка сохранения игрока %s: %v", name, err)
		respond(c, http.StatusInternalServerError, "Ошибка сохранения игрока", nil)
		return
	}
	rs.publish(c.Request.Context(), eventbus.EventPlayerLeft, eventbus.PriorityHigh, gin.H{"name": name})
	respond(c, http.StatusOK, "Игрок вышел", st)
}
