// Package maxflow implements the alternative max-flow-then-min-cost
// solver: a reference tracker that first computes the maximum flow
// value achievable from source to the first target, then solves a
// min-cost flow for exactly that committed supply.
//
// Three interchangeable max-flow engines compute the supply value:
//
//   - EdmondsKarp
//   - Method: breadth-first search for shortest (fewest-arc) augmenting
//     paths.
//   - Time: O(V * E^2) in the worst case.
//   - Use when a polynomial worst-case guarantee matters more than
//     constant-factor speed.
//
//   - Dinic
//   - Method: level graph via BFS, then blocking flow via DFS with
//     per-node iterator pointers.
//   - Time: O(E * sqrt(V)) on unit-capacity networks.
//   - Use for dense or high-capacity graphs where Edmonds-Karp's
//     repeated BFS becomes the bottleneck.
//
//   - FordFulkerson
//   - Method: depth-first search for any augmenting path.
//   - Time: O(E * F), F the total flow pushed.
//   - Use when simplicity matters more than worst-case bounds.
//
// All three operate on the same residual.Graph the tracking package
// uses, treating capacity only: the max-flow phase ignores cost
// entirely. Once the achieved flow value is known, the graph's flows
// are reset and shortestpath.Finder (back arcs disabled, ordered node
// list enabled) runs that many successive-shortest-path iterations
// unconditionally, converting the bare flow value into a minimum-cost
// assignment carrying it. synchronizeDivisionDuplicateArcFlows then
// certifies the division coupling invariant on the finished assignment.
package maxflow
