// Package neat provides a Go evaluator for networks produced by the NeuroEvolution of
// Augmenting Topologies (NEAT) algorithm.
//
// A NEAT network has no fixed hidden layers. The evolutionary process grows hidden
// neurons and links that may be feed-forward, recurrent or self-connected. This module
// evaluates such a network from a flat, ordered neuron list: every sweep walks the list
// once and each link reads whatever output its source neuron currently holds. Recurrence
// is handled by how many sweeps run and whether state persists between calls, not by
// graph analysis at evaluation time.
//
// The output can be calculated normally or using a snapshot. Snapshot mode is slower,
// but it loops through the network networkDepth times to flush out recurrent links and
// clears all neuron state afterwards.
//
// Basic usage:
//
//	// Load configuration
//	config, err := neat.LoadConfig("path/to/config")
//	if err != nil {
//		log.Fatalf("Error loading config: %v", err)
//	}
//
//	// Build a genome and decode it into a network
//	genome := neat.NewGenome(1, &config.Genome)
//	genome.ConfigureNew()
//	net, err := nn.CreateNetworkFromConfig(genome, config)
//	if err != nil {
//		log.Fatalf("Error creating network: %v", err)
//	}
//
//	output, err := net.Compute([]float64{1, 0})
//	if err != nil {
//		log.Fatalf("Error computing output: %v", err)
//	}
package neat
