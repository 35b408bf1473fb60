package describe

// go:generate go install github.com/ZenLiuCN/vsupport/cmd/vsupport@latest
//
//go:generate vsupport compile -k describe -o describe.o describe.go
func Describe(name string) string {
	return "bridge:" + name
}
