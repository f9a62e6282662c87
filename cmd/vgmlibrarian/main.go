// Command vgmlibrarian browses, inspects and plays video game music files:
// VGM, VGZ, SPC and RSN archives of SPC files.
package main

func main() {
	execute()
}
