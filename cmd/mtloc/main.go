// Command mtloc unpacks and repacks the script, font and texture assets
// of MT Framework games on the 3DS for translation work.
package main

func main() {
	Execute()
}
