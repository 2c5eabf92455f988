package world

// Spawn requests that content identified by Tag be placed on tile Idx
type Spawn struct {
	Idx int    `yaml:"idx"`
	Tag string `yaml:"tag"`
}
