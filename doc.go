/*
Package vsupport lets an add-on call into the internal, version unstable object model of the host it runs in.

# License

Source codes are under Apache License Version 2.0.

# Underwater

 1. The host publishes its internal types as a class table ([Table]) under dotted names,
    version specific classes live below a version package, such as "org.bukkit.craftbukkit.v1_16_R3".
 2. The version is read once from the class name of the running server ([Instance]) and never changes.
 3. Classes are resolved on every call, either version stable ([Support.Class]) or under the version ([Support.VersionedClass]).
 4. Members are selected by the exact run-time types of the arguments ([ArgTypes]), then invoked through reflection.

# Errors

 1. [ErrDetection] is fatal: without a version nothing can be resolved.
 2. Every other failure is a [*DispatchError], of kind malformed path, missing symbol, binding or invocation.
    Missing symbols ([Absent]) usually mean the host version lacks a capability, callers probing optional members degrade on them.
 3. The item and inventory operations log failures and report absence instead of returning errors.

# Samples

	if err := vsupport.Attach(host); err != nil {
		return err
	}
	s, err := vsupport.Instance()
	if err != nil {
		return err
	}
	stack, ok := s.ItemStack("minecraft:stone")

Version specific functions may also be linked at runtime from object files, see package bridge.

# Bridges

The bridge linker reads object files with the go sdk internal readers, so the sdk must be prepared once
before package bridge or the vsupport tool can build:

	go run github.com/ZenLiuCN/vsupport/cmd/vsupport-sdk prepare

This copies $GOROOT/src/cmd/internal to $GOROOT/src/cmd/objfile, `vsupport-sdk clean` removes it again.
Building bridges needs the same go version as the host executable.
*/
package vsupport
