// Package simhost is an in-process host shaped like a CraftBukkit server.
//
// It publishes its internal types through a [vsupport.Table] under the usual
// dotted names, with version specific classes nested below the version package:
//
//	org.bukkit.craftbukkit.v1_16_R3.CraftServer
//	org.bukkit.craftbukkit.v1_16_R3.inventory.CraftItemStack
//	net.minecraft.core.IRegistry
//
// Two versions are modeled. [V1_16] is complete. [V1_12] ships a registry
// that can not reverse a lookup, so key formatting is absent there.
package simhost
