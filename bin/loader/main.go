package main

import (
	"flag"
	"log"
	"os"

	"github.com/zond/scriptcore/config"
	"github.com/zond/scriptcore/storage"

	goccy "github.com/goccy/go-json"
)

func main() {
	dbPath := flag.String("db", config.Default().Database.Path, "Content database to load into or back up.")
	dataPath := flag.String("data", "", "Path to load JSON from.")
	doRestore := flag.Bool("restore", false, "XOR 'backup': Whether to load data from the data path to the database.")
	doBackup := flag.Bool("backup", false, "XOR 'restore': Whether to write the database to the data path.")

	flag.Parse()

	if *dataPath == "" || (*doRestore == *doBackup) {
		flag.Usage()
		return
	}

	store, err := storage.Open(*dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	if *doRestore {
		f, err := os.Open(*dataPath)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()

		d := &storage.Dump{}
		if err := goccy.NewDecoder(f).Decode(d); err != nil {
			log.Fatalf("decoding data: %v", err)
		}
		if err := store.Restore(d); err != nil {
			log.Fatalf("restoring data: %v", err)
		}
		log.Printf("Restored %v script names and %v spell scripts", len(d.ScriptNames), len(d.SpellScripts))
	}
	if *doBackup {
		d, err := store.Dump()
		if err != nil {
			log.Fatalf("dumping data: %v", err)
		}

		b, err := goccy.MarshalIndent(d, "", "  ")
		if err != nil {
			log.Fatalf("encoding data: %v", err)
		}

		if err := os.WriteFile(*dataPath, b, 0600); err != nil {
			log.Fatal(err)
		}
	}
}
