package vsupport

import (
	"fmt"
	"reflect"

	"github.com/ZenLiuCN/vsupport/api"
	"github.com/ZenLiuCN/vsupport/field"
)

const chestKind = "minecraft:chest"

var (
	stringType    = TypeOf[string]()
	intType       = TypeOf[int]()
	anyType       = TypeOf[any]()
	itemStackType = TypeOf[api.ItemStack]()
)

// ItemStack creates a stack of the item registered under key, such as "minecraft:stone".
//
// An unknown key is absent without being an error.
func (s *Support) ItemStack(key string) (api.ItemStack, bool) {
	const op = "item_stack"
	keyClass, err := s.Class(MinecraftResources, "MinecraftKey")
	if err != nil {
		s.failed(op, err)
		return nil, false
	}
	ctor, err := keyClass.Constructor(stringType)
	if err != nil {
		s.failed(op, err)
		return nil, false
	}
	mk, err := ctor.NewInstance(key)
	if err != nil {
		s.failed(op, err)
		return nil, false
	}
	reg, ok := s.Registry()
	if !ok {
		return nil, false
	}
	keyType, err := keyClass.InstanceType()
	if err != nil {
		s.failed(op, err)
		return nil, false
	}
	get, err := MethodOf(reg, "Get", keyType)
	if err != nil {
		s.failed(op, err)
		return nil, false
	}
	item, err := get.Invoke(reg, mk)
	if err != nil {
		s.failed(op, err)
		return nil, false
	}
	if item == nil {
		s.log.Debug().Str("op", op).Str("key", key).Msg("unknown key")
		return nil, false
	}
	craft, err := s.VersionedClass(Bukkit, "inventory.CraftItemStack")
	if err != nil {
		s.failed(op, err)
		return nil, false
	}
	itemClass, err := s.Class(MinecraftWorldItem, "Item")
	if err != nil {
		s.failed(op, err)
		return nil, false
	}
	itemType, err := itemClass.InstanceType()
	if err != nil {
		s.failed(op, err)
		return nil, false
	}
	conv, err := craft.Method("AsNewCraftStack", itemType)
	if err != nil {
		s.failed(op, err)
		return nil, false
	}
	v, err := conv.Invoke(nil, item)
	if err != nil {
		s.failed(op, err)
		return nil, false
	}
	stack, ok := As[api.ItemStack](v)
	if !ok {
		s.failed(op, dispatchErr(op, conv.String(), KindBinding, fmt.Errorf("%T is not an item stack", v)))
	}
	return stack, ok
}

// MinecraftKey formats the registry key of the stack item as "namespace:key".
//
// Host versions whose registry can not reverse a lookup report absent.
func (s *Support) MinecraftKey(stack api.ItemStack) (string, bool) {
	const op = "minecraft_key"
	if stack == nil {
		return "", false
	}
	craft, err := s.VersionedClass(Bukkit, "inventory.CraftItemStack")
	if err != nil {
		s.failed(op, err)
		return "", false
	}
	conv, err := craft.Method("AsNMSCopy", itemStackType)
	if err != nil {
		s.failed(op, err)
		return "", false
	}
	nms, err := conv.Invoke(nil, stack)
	if err != nil {
		s.failed(op, err)
		return "", false
	}
	item, err := s.Invoke(nms, "GetItem")
	if err != nil {
		s.failed(op, err)
		return "", false
	}
	reg, ok := s.Registry()
	if !ok {
		return "", false
	}
	getKey, err := MethodOf(reg, "GetKey", anyType)
	if Absent(err) {
		s.log.Debug().Str("op", op).Str("registry", reflect.TypeOf(reg).String()).Msg("registry has no reverse lookup")
		return "", false
	} else if err != nil {
		s.failed(op, err)
		return "", false
	}
	mk, err := getKey.Invoke(reg, item)
	if err != nil {
		s.failed(op, err)
		return "", false
	}
	if mk == nil {
		s.log.Debug().Str("op", op).Msg("item not registered")
		return "", false
	}
	ns, err := s.Invoke(mk, "GetNamespace")
	if err != nil {
		s.failed(op, err)
		return "", false
	}
	key, err := s.Invoke(mk, "GetKey")
	if err != nil {
		s.failed(op, err)
		return "", false
	}
	return fmt.Sprintf("%v:%v", ns, key), true
}

// UpdateInventoryName retitles the container the player has open by resending
// the open window packet, then redraws the player inventory.
//
// Each call sends one packet and one redraw. It reports whether both were done.
func (s *Support) UpdateInventoryName(title string, player api.Player) bool {
	const op = "update_inventory_name"
	if player == nil {
		return false
	}
	handle, err := s.Invoke(player, "GetHandle")
	if err != nil {
		s.failed(op, err)
		return false
	}
	chat, err := s.Construct(MinecraftServer, "ChatMessage", title, []any{})
	if err != nil {
		s.failed(op, err)
		return false
	}
	active := field.From(handle).Get("ActiveContainer")
	windowID := active.Get("WindowID")
	if err = windowID.Err(); err != nil {
		s.failed(op, dispatchErr("field", windowID.Path(), KindSymbol, err))
		return false
	}
	chatClass, err := s.Class(MinecraftServer, "IChatBaseComponent")
	if err != nil {
		s.failed(op, err)
		return false
	}
	if chat, err = chatClass.Cast(chat); err != nil {
		s.failed(op, err)
		return false
	}
	packetClass, err := s.Class(MinecraftServer, "PacketPlayOutOpenWindow")
	if err != nil {
		s.failed(op, err)
		return false
	}
	chatType, err := chatClass.InstanceType()
	if err != nil {
		s.failed(op, err)
		return false
	}
	ctor, err := packetClass.Constructor(intType, stringType, chatType, intType)
	if err != nil {
		s.failed(op, err)
		return false
	}
	size := 0
	if view := player.OpenInventory(); view != nil && view.TopInventory() != nil {
		size = view.TopInventory().Size()
	}
	packet, err := ctor.NewInstance(windowID.Value(), chestKind, chat, size)
	if err != nil {
		s.failed(op, err)
		return false
	}
	conn, err := FieldOf(handle, "PlayerConnection")
	if err != nil {
		s.failed(op, err)
		return false
	}
	packetIface, err := s.Class(MinecraftServer, "Packet")
	if err != nil {
		s.failed(op, err)
		return false
	}
	packetType, err := packetIface.InstanceType()
	if err != nil {
		s.failed(op, err)
		return false
	}
	send, err := MethodOf(conn, "SendPacket", packetType)
	if err != nil {
		s.failed(op, err)
		return false
	}
	containerClass, err := s.Class(MinecraftServer, "Container")
	if err != nil {
		s.failed(op, err)
		return false
	}
	containerType, err := containerClass.InstanceType()
	if err != nil {
		s.failed(op, err)
		return false
	}
	update, err := MethodOf(handle, "UpdateInventory", containerType)
	if err != nil {
		s.failed(op, err)
		return false
	}
	if _, err = send.Invoke(conn, packet); err != nil {
		s.failed(op, err)
		return false
	}
	if _, err = update.Invoke(handle, active.Value()); err != nil {
		s.failed(op, err)
		return false
	}
	return true
}
