package simhost

import (
	"github.com/ZenLiuCN/vsupport/api"
)

type (
	// Server is the running server, its class lives in the version package.
	Server struct {
		version string
	}
	// CraftItemStack is the public item stack backed by an internal one.
	CraftItemStack struct {
		handle *ItemStack
	}
	// CraftPlayer is the public player backed by an entity.
	CraftPlayer struct {
		handle *EntityPlayer
		view   *inventoryView
	}
	inventory struct {
		size  int
		title string
	}
	inventoryView struct {
		top    api.Inventory
		bottom api.Inventory
	}
)

func (s *Server) Name() string    { return "simhost" }
func (s *Server) Version() string { return s.version }

func (s *CraftItemStack) Material() string {
	if s.handle == nil || s.handle.item == nil {
		return "minecraft:air"
	}
	return s.handle.item.Key.String()
}

func (s *CraftItemStack) Amount() int {
	if s.handle == nil {
		return 0
	}
	return s.handle.count
}

func asNewCraftStack(item *Item) *CraftItemStack {
	return &CraftItemStack{handle: NewItemStack(item, 1)}
}

func (p *CraftPlayer) Name() string                     { return p.handle.Name }
func (p *CraftPlayer) OpenInventory() api.InventoryView { return p.view }
func (p *CraftPlayer) GetHandle() *EntityPlayer         { return p.handle }

func (i *inventory) Size() int     { return i.size }
func (i *inventory) Title() string { return i.title }

func (v *inventoryView) TopInventory() api.Inventory    { return v.top }
func (v *inventoryView) BottomInventory() api.Inventory { return v.bottom }
