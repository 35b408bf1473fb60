package vsupport

import "fmt"

// Namespace is one of the fixed roots of the host class hierarchy.
type Namespace int

const (
	Bukkit Namespace = iota
	MinecraftServer
	MinecraftResources
	MinecraftWorldItem
	MinecraftCore
	namespaceEnd
)

var prefixes = [...]string{
	Bukkit:             "org.bukkit.craftbukkit",
	MinecraftServer:    "net.minecraft.server",
	MinecraftResources: "net.minecraft.resources",
	MinecraftWorldItem: "net.minecraft.world.item",
	MinecraftCore:      "net.minecraft.core",
}

// Prefix of the namespace, empty for values outside the enum.
func (n Namespace) Prefix() string {
	if !n.Valid() {
		return ""
	}
	return prefixes[n]
}

func (n Namespace) Valid() bool {
	return n >= 0 && n < namespaceEnd
}

func (n Namespace) String() string {
	if !n.Valid() {
		return fmt.Sprintf("Namespace(%d)", int(n))
	}
	return prefixes[n]
}

// Namespaces lists every known namespace in declaration order.
func Namespaces() []Namespace {
	v := make([]Namespace, 0, namespaceEnd)
	for n := Bukkit; n < namespaceEnd; n++ {
		v = append(v, n)
	}
	return v
}
