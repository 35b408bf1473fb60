package simhost

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"sync"

	"github.com/ZenLiuCN/vsupport"
	"github.com/ZenLiuCN/vsupport/api"
)

const (
	V1_12 = "v1_12_R1"
	V1_16 = "v1_16_R3"
)

var ErrUnsupportedVersion = errors.New("unsupported simulated version")

// Versions lists the simulated host versions.
func Versions() []string {
	return []string{V1_12, V1_16}
}

// Host is a simulated server of one version.
type Host struct {
	version  string
	server   *Server
	table    *vsupport.Table
	registry any //static IRegistry.Z
	items    interface{ add(*Item) }
	mu       sync.Mutex
	windows  int
}

// New creates a host of version with the given item keys registered.
func New(version string, keys ...string) (*Host, error) {
	if !slices.Contains(Versions(), version) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedVersion, version)
	}
	h := &Host{version: version, server: &Server{version: version}, table: vsupport.NewTable()}
	if version == V1_12 {
		r := new(LegacyRegistry)
		h.registry, h.items = r, r
	} else {
		r := new(Registry)
		h.registry, h.items = r, r
	}
	h.classes()
	for _, k := range keys {
		h.Register(k)
	}
	return h, nil
}

func (h *Host) classes() {
	craft := "org.bukkit.craftbukkit." + h.version + "."
	server := "net.minecraft.server."
	h.table.Register(
		vsupport.NewClass(craft+"CraftServer", reflect.TypeOf(h.server)),
		vsupport.NewClass(craft+"inventory.CraftItemStack", reflect.TypeOf((*CraftItemStack)(nil))).
			WithFunc("AsNewCraftStack", asNewCraftStack).
			WithFunc("AsNMSCopy", h.asNMSCopy),
		vsupport.NewClass(craft+"entity.CraftPlayer", reflect.TypeOf((*CraftPlayer)(nil))),
		vsupport.NewClass("net.minecraft.resources.MinecraftKey", reflect.TypeOf((*MinecraftKey)(nil))).
			WithConstructor(NewMinecraftKey).
			WithConstructor(NewNamespacedKey),
		vsupport.NewClass("net.minecraft.world.item.Item", reflect.TypeOf((*Item)(nil))),
		vsupport.NewClass("net.minecraft.world.item.ItemStack", reflect.TypeOf((*ItemStack)(nil))).
			WithConstructor(NewItemStack),
		vsupport.NewClass("net.minecraft.core.IRegistry", reflect.TypeOf(h.registry)).
			WithStatic("Z", &h.registry),
		vsupport.NewClass(server+"IChatBaseComponent", vsupport.TypeOf[ChatComponent]()),
		vsupport.NewClass(server+"ChatMessage", reflect.TypeOf((*ChatMessage)(nil))).
			WithConstructor(NewChatMessage),
		vsupport.NewClass(server+"Packet", vsupport.TypeOf[Packet]()),
		vsupport.NewClass(server+"PacketPlayOutOpenWindow", reflect.TypeOf((*OpenWindowPacket)(nil))).
			WithConstructor(NewOpenWindowPacket),
		vsupport.NewClass(server+"Container", vsupport.TypeOf[Container]()),
		vsupport.NewClass(server+"EntityPlayer", reflect.TypeOf((*EntityPlayer)(nil))),
		vsupport.NewClass(server+"PlayerConnection", reflect.TypeOf((*PlayerConnection)(nil))),
	)
}

func (h *Host) Server() any                   { return h.server }
func (h *Host) Classes() vsupport.ClassLoader { return h.table }
func (h *Host) Table() *vsupport.Table        { return h.table }
func (h *Host) Version() string               { return h.version }

// Register adds an item under key and returns it.
func (h *Host) Register(key string) *Item {
	item := &Item{Key: NewMinecraftKey(key)}
	h.items.add(item)
	return item
}

// asNMSCopy converts any public stack to the internal representation.
func (h *Host) asNMSCopy(stack api.ItemStack) *ItemStack {
	if stack == nil {
		return nil
	}
	if c, ok := stack.(*CraftItemStack); ok && c.handle != nil {
		return NewItemStack(c.handle.item, c.handle.count)
	}
	var item *Item
	switch r := h.registry.(type) {
	case *Registry:
		item = r.Get(NewMinecraftKey(stack.Material()))
	case *LegacyRegistry:
		item = r.Get(NewMinecraftKey(stack.Material()))
	}
	if item == nil {
		return nil
	}
	return NewItemStack(item, stack.Amount())
}

// Join connects a player with an empty personal inventory.
func (h *Host) Join(name string) *CraftPlayer {
	return &CraftPlayer{
		handle: &EntityPlayer{Name: name, PlayerConnection: new(PlayerConnection)},
		view:   &inventoryView{bottom: &inventory{size: 36, title: name}},
	}
}

// OpenChest opens a chest of size slots for p and returns its window id.
func (h *Host) OpenChest(p *CraftPlayer, title string, size int) int {
	h.mu.Lock()
	h.windows++
	id := h.windows
	h.mu.Unlock()
	p.handle.ActiveContainer = &ChestContainer{WindowID: id, Size: size}
	p.view.top = &inventory{size: size, title: title}
	return id
}
