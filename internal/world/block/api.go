package block

// API определяет интерфейс для взаимодействия блоков с игровым миром.
// Хуки поведения получают его вместо прямой ссылки на мир, что позволяет
// тестировать поведения на заглушках.
type API interface {
	// GetBlockAt возвращает тип блока; отсутствующий чанк читается как воздух.
	GetBlockAt(x, y, z int) *Type

	// SetBlock устанавливает блок и запускает каскад обновлений соседей.
	SetBlock(x, y, z int, t *Type)

	// GetBlockState возвращает значение канала состояния или nil.
	GetBlockState(x, y, z int, ch *StateChannel) *StateValue

	// SetBlockState записывает значение канала; notify запускает каскад обновлений.
	SetBlockState(x, y, z int, ch *StateChannel, v *StateValue, notify bool)

	// ClearStates удаляет все значения состояний вокселя.
	ClearStates(x, y, z int)

	// DirectElectricPowerAt возвращает максимальную мощность среди шести соседей.
	DirectElectricPowerAt(x, y, z int) int

	// UpdateBlockAndNeighbors запускает хуки обновления вокселя и его соседей.
	UpdateBlockAndNeighbors(x, y, z int)

	// Blocks и States дают доступ к реестрам мира.
	Blocks() *Registry
	States() *States
}
