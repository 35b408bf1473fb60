package vsupport_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ZenLiuCN/fn"
	"github.com/ZenLiuCN/vsupport"
	"github.com/ZenLiuCN/vsupport/simhost"
	"github.com/rs/zerolog"
)

func TestItemStackRoundTrip(t *testing.T) {
	keys := []string{"core:stone", "minecraft:dirt", "minecraft:oak_log"}
	_, s := newSupport(t, simhost.V1_16, keys...)
	for _, k := range keys {
		t.Run(k, func(t *testing.T) {
			stack, ok := s.ItemStack(k)
			if !ok || stack == nil {
				t.Fatalf("ItemStack(%s) absent", k)
			}
			if stack.Material() != k || stack.Amount() != 1 {
				t.Errorf("stack = %s x%d", stack.Material(), stack.Amount())
			}
			got, ok := s.MinecraftKey(stack)
			if !ok || got != k {
				t.Errorf("MinecraftKey() = %q, %t, want %q", got, ok, k)
			}
		})
	}
}

func TestItemStackUnknown(t *testing.T) {
	buf := new(bytes.Buffer)
	h := fn.Panic1(simhost.New(simhost.V1_16, "core:stone"))
	s := fn.Panic1(vsupport.New(h, vsupport.WithLogger(zerolog.New(buf).Level(zerolog.WarnLevel))))
	if stack, ok := s.ItemStack("core:unknown-key-xyz"); ok || stack != nil {
		t.Errorf("ItemStack() = %v, %t", stack, ok)
	}
	if buf.Len() != 0 {
		t.Errorf("unknown key logged a failure: %s", buf)
	}
}

func TestItemStackMissingConversion(t *testing.T) {
	buf := new(bytes.Buffer)
	h := fn.Panic1(simhost.New(simhost.V1_16, "core:stone"))
	s := fn.Panic1(vsupport.New(h, vsupport.WithLogger(zerolog.New(buf))))
	h.Table().Remove("org.bukkit.craftbukkit.v1_16_R3.inventory.CraftItemStack")
	if _, ok := s.ItemStack("core:stone"); ok {
		t.Error("ItemStack() without conversion class")
	}
	if !strings.Contains(buf.String(), "dispatch failed") {
		t.Errorf("failure not logged: %s", buf)
	}
}

func TestMinecraftKeyLegacy(t *testing.T) {
	buf := new(bytes.Buffer)
	h := fn.Panic1(simhost.New(simhost.V1_12, "minecraft:stone"))
	s := fn.Panic1(vsupport.New(h, vsupport.WithLogger(zerolog.New(buf).Level(zerolog.WarnLevel))))
	stack, ok := s.ItemStack("minecraft:stone")
	if !ok {
		t.Fatal("ItemStack() absent on legacy host")
	}
	if key, ok := s.MinecraftKey(stack); ok || key != "" {
		t.Errorf("MinecraftKey() = %q, %t on a registry without reverse lookup", key, ok)
	}
	if buf.Len() != 0 {
		t.Errorf("missing reverse lookup logged as a failure: %s", buf)
	}
}

func TestMinecraftKeyNil(t *testing.T) {
	_, s := newSupport(t, simhost.V1_16)
	if _, ok := s.MinecraftKey(nil); ok {
		t.Error("MinecraftKey(nil) present")
	}
}

func TestUpdateInventoryName(t *testing.T) {
	h, s := newSupport(t, simhost.V1_16)
	p := h.Join("alex")
	id := h.OpenChest(p, "Chest", 27)
	for i := 1; i <= 2; i++ {
		if !s.UpdateInventoryName("Loot", p) {
			t.Fatalf("call %d failed", i)
		}
		sent := p.GetHandle().PlayerConnection.Sent()
		if len(sent) != i {
			t.Fatalf("call %d: %d packets sent", i, len(sent))
		}
		if n := len(p.GetHandle().Updates()); n != i {
			t.Fatalf("call %d: %d redraws", i, n)
		}
		pkt, ok := sent[i-1].(*simhost.OpenWindowPacket)
		if !ok {
			t.Fatalf("sent %T", sent[i-1])
		}
		if pkt.WindowID != id || pkt.Kind != "minecraft:chest" || pkt.Slots != 27 || pkt.Title.Text() != "Loot" {
			t.Errorf("packet = %+v", pkt)
		}
		if p.GetHandle().Updates()[i-1] != p.GetHandle().ActiveContainer {
			t.Error("redraw with another container")
		}
	}
}

func TestUpdateInventoryNameNoContainer(t *testing.T) {
	h, s := newSupport(t, simhost.V1_16)
	p := h.Join("steve")
	if s.UpdateInventoryName("Loot", p) {
		t.Error("updated without an open container")
	}
	if n := len(p.GetHandle().PlayerConnection.Sent()); n != 0 {
		t.Errorf("%d packets sent", n)
	}
	if s.UpdateInventoryName("Loot", nil) {
		t.Error("updated a nil player")
	}
}

func TestOperationsTypelessClass(t *testing.T) {
	cases := []struct {
		class string
		run   func(h *simhost.Host, s *vsupport.Support) bool
	}{
		{"net.minecraft.world.item.Item", func(_ *simhost.Host, s *vsupport.Support) bool {
			_, ok := s.ItemStack("core:stone")
			return ok
		}},
		{"net.minecraft.server.IChatBaseComponent", retitle},
		{"net.minecraft.server.Packet", retitle},
		{"net.minecraft.server.Container", retitle},
	}
	for _, c := range cases {
		t.Run(c.class, func(t *testing.T) {
			buf := new(bytes.Buffer)
			h := fn.Panic1(simhost.New(simhost.V1_16, "core:stone"))
			s := fn.Panic1(vsupport.New(h, vsupport.WithLogger(zerolog.New(buf))))
			h.Table().Register(vsupport.NewClass(c.class, nil))
			if c.run(h, s) {
				t.Error("succeeded with a typeless class")
			}
			if !strings.Contains(buf.String(), "class has no instance type") {
				t.Errorf("failure not logged: %s", buf)
			}
		})
	}
}

func retitle(h *simhost.Host, s *vsupport.Support) bool {
	p := h.Join("alex")
	h.OpenChest(p, "Chest", 9)
	ok := s.UpdateInventoryName("Loot", p)
	if n := len(p.GetHandle().PlayerConnection.Sent()); n != 0 {
		return true
	}
	return ok
}
