package simhost

import (
	"strings"
	"sync"
)

type (
	// MinecraftKey is a namespaced identifier such as "minecraft:stone".
	MinecraftKey struct {
		namespace string
		key       string
	}
	// Item is a registered item type.
	Item struct {
		Key *MinecraftKey
	}
	// ItemStack is the internal stack representation.
	ItemStack struct {
		item  *Item
		count int
	}
	// ChatComponent is the internal chat text.
	ChatComponent interface {
		Text() string
	}
	// ChatMessage is a translatable chat text.
	ChatMessage struct {
		Key  string
		Args []any
	}
	// Packet is sent to a player connection.
	Packet interface {
		PacketName() string
	}
	// OpenWindowPacket asks the client to open a window.
	OpenWindowPacket struct {
		WindowID int
		Kind     string
		Title    ChatComponent
		Slots    int
	}
	// Container is a server side window.
	Container interface {
		ContainerID() int
	}
	// ChestContainer is the container of an open chest.
	ChestContainer struct {
		WindowID int
		Size     int
	}
	// PlayerConnection records the packets sent to a player.
	PlayerConnection struct {
		mu   sync.Mutex
		sent []Packet
	}
	// EntityPlayer is the internal player entity.
	EntityPlayer struct {
		Name             string
		ActiveContainer  Container
		PlayerConnection *PlayerConnection
		mu               sync.Mutex
		updates          []Container
	}
)

func NewMinecraftKey(s string) *MinecraftKey {
	ns, key, ok := strings.Cut(s, ":")
	if !ok {
		return &MinecraftKey{namespace: "minecraft", key: s}
	}
	return &MinecraftKey{namespace: ns, key: key}
}

func NewNamespacedKey(namespace, key string) *MinecraftKey {
	return &MinecraftKey{namespace: namespace, key: key}
}

func (k *MinecraftKey) GetNamespace() string { return k.namespace }
func (k *MinecraftKey) GetKey() string       { return k.key }
func (k *MinecraftKey) String() string       { return k.namespace + ":" + k.key }

func NewItemStack(item *Item, count int) *ItemStack {
	return &ItemStack{item: item, count: count}
}

func (s *ItemStack) GetItem() *Item { return s.item }
func (s *ItemStack) GetCount() int  { return s.count }

func NewChatMessage(key string, args ...any) *ChatMessage {
	return &ChatMessage{Key: key, Args: args}
}

func (m *ChatMessage) Text() string { return m.Key }

func NewOpenWindowPacket(windowID int, kind string, title ChatComponent, slots int) *OpenWindowPacket {
	return &OpenWindowPacket{WindowID: windowID, Kind: kind, Title: title, Slots: slots}
}

func (p *OpenWindowPacket) PacketName() string { return "PacketPlayOutOpenWindow" }

func (c *ChestContainer) ContainerID() int { return c.WindowID }

func (c *PlayerConnection) SendPacket(p Packet) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, p)
}

// Sent returns a copy of the packets sent so far.
func (c *PlayerConnection) Sent() []Packet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Packet(nil), c.sent...)
}

func (e *EntityPlayer) UpdateInventory(c Container) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.updates = append(e.updates, c)
}

// Updates returns the containers passed to UpdateInventory so far.
func (e *EntityPlayer) Updates() []Container {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Container(nil), e.updates...)
}
