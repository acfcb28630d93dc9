package util

import (
	"sync"

	"github.com/aquilax/go-perlin"
)

const (
	perlinAlpha   = 2.0 // Сглаживание шума
	perlinBeta    = 2.0 // Частота шума
	perlinOctaves = 3   // Количество октав
)

var (
	noiseMu sync.Mutex
	noises  = make(map[int64]*perlin.Perlin)
)

// noiseFor возвращает генератор шума для сида, создавая его при первом обращении
func noiseFor(seed int64) *perlin.Perlin {
	noiseMu.Lock()
	defer noiseMu.Unlock()

	p, ok := noises[seed]
	if !ok {
		p = perlin.NewPerlin(perlinAlpha, perlinBeta, perlinOctaves, seed)
		noises[seed] = p
	}
	return p
}

// PerlinNoise2D возвращает значение шума Перлина для указанных координат (от 0 до 1)
func PerlinNoise2D(x, y float64, seed int64) float64 {
	noise := noiseFor(seed).Noise2D(x, y)

	// Преобразуем из [-1,1] в [0,1]
	v := (noise + 1.0) / 2.0
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
