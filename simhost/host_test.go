package simhost

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	_, err := New("v1_8_R3")
	require.ErrorIs(t, err, ErrUnsupportedVersion)

	h, err := New(V1_16, "minecraft:stone")
	require.NoError(t, err)
	name, ok := h.Classes().NameOf(reflect.TypeOf(h.Server()))
	require.True(t, ok)
	require.Equal(t, "org.bukkit.craftbukkit.v1_16_R3.CraftServer", name)
	require.Contains(t, h.Table().Names(), "net.minecraft.core.IRegistry")
}

func TestRegistries(t *testing.T) {
	h, err := New(V1_16, "core:stone")
	require.NoError(t, err)
	r := h.registry.(*Registry)
	item := r.Get(NewMinecraftKey("core:stone"))
	require.NotNil(t, item)
	require.Equal(t, "core:stone", r.GetKey(item).String())
	require.Nil(t, r.GetKey(&Item{Key: NewMinecraftKey("core:other")}))
	require.Nil(t, r.GetKey("core:stone"))
	require.Nil(t, r.Get(nil))

	legacy, err := New(V1_12, "stone")
	require.NoError(t, err)
	l := legacy.registry.(*LegacyRegistry)
	require.NotNil(t, l.Get(NewMinecraftKey("minecraft:stone")))
}

func TestConversions(t *testing.T) {
	h, err := New(V1_16, "core:stone")
	require.NoError(t, err)
	item := h.registry.(*Registry).Get(NewMinecraftKey("core:stone"))
	stack := asNewCraftStack(item)
	require.Equal(t, "core:stone", stack.Material())
	require.Equal(t, 1, stack.Amount())
	nms := h.asNMSCopy(stack)
	require.Same(t, item, nms.GetItem())
	require.Nil(t, h.asNMSCopy(nil))
	plain := h.asNMSCopy(plainStack{material: "core:stone", amount: 5})
	require.Same(t, item, plain.GetItem())
	require.Equal(t, 5, plain.GetCount())
	require.Nil(t, h.asNMSCopy(plainStack{material: "core:unknown"}))
}

type plainStack struct {
	material string
	amount   int
}

func (s plainStack) Material() string { return s.material }
func (s plainStack) Amount() int      { return s.amount }

func TestPlayer(t *testing.T) {
	h, err := New(V1_16)
	require.NoError(t, err)
	p := h.Join("alex")
	require.Equal(t, "alex", p.Name())
	require.Nil(t, p.OpenInventory().TopInventory())
	require.Equal(t, 36, p.OpenInventory().BottomInventory().Size())
	first := h.OpenChest(p, "Chest", 27)
	second := h.OpenChest(p, "Barrel", 9)
	require.Equal(t, first+1, second)
	require.Equal(t, 9, p.OpenInventory().TopInventory().Size())
	require.Equal(t, second, p.GetHandle().ActiveContainer.ContainerID())
}
