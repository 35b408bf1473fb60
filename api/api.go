// Package api holds the public, version stable types of the host.
//
// Internal host types convert to and from these through version specific bridges.
package api

type (
	// ItemStack is a stack of one item type.
	ItemStack interface {
		Material() string
		Amount() int
	}
	// Inventory is a container of item slots.
	Inventory interface {
		Size() int
		Title() string
	}
	// InventoryView links the inventory a player looks at with their own.
	InventoryView interface {
		TopInventory() Inventory
		BottomInventory() Inventory
	}
	// Player is a connected actor.
	Player interface {
		Name() string
		OpenInventory() InventoryView
	}
)
