// internal/event/types.go
package event

const (
	CapabilityChanged EventType = "CapabilityChanged" // Data: capability.RenderCapability
	VisibilityChanged EventType = "VisibilityChanged" // Data: bool (в зоне видимости)
	ThemeChanged      EventType = "ThemeChanged"      // Data: scene.Theme
	ModeChanged       EventType = "ModeChanged"       // Data: string, имя режима
	Invalidated       EventType = "Invalidated"       // Data: int, счётчик запросов перерисовки
)
